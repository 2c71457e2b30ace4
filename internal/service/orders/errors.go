package orders

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ErrOrderNotFound is returned by operations that need an existing order.
// Lookups and deletes report a missing order as nil or false instead.
var ErrOrderNotFound = errors.New("order not found")

// ValidationError lists every rule the input broke.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

// UnsupportedTypeError is returned for an order type with no strategy.
type UnsupportedTypeError struct {
	Type model.OrderType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported order type %q", string(e.Type))
}

// TransitionError is returned when the lifecycle forbids the requested
// change, for example leaving a terminal state.
type TransitionError struct {
	From   model.OrderStatus
	To     model.OrderStatus
	Reason string
}

func (e *TransitionError) Error() string {
	if e.To == "" {
		return fmt.Sprintf("order in status %s: %s", e.From, e.Reason)
	}
	return fmt.Sprintf("cannot move order from %s to %s: %s", e.From, e.To, e.Reason)
}

// TransactionError wraps a storage failure that aborted an operation. The
// transaction was rolled back and nothing was persisted.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *TransactionError) Unwrap() error { return e.Err }

// isDomainError reports errors that describe the request rather than the
// storage layer. They pass through transactions unwrapped.
func isDomainError(err error) bool {
	var (
		ve *ValidationError
		ue *UnsupportedTypeError
		te *TransitionError
	)
	return errors.As(err, &ve) || errors.As(err, &ue) || errors.As(err, &te) || errors.Is(err, ErrOrderNotFound)
}

func invalid(msgs ...string) error {
	return &ValidationError{Errors: msgs}
}
