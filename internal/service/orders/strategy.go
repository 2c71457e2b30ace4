package orders

import (
	"context"
	"strings"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ValidationResult is the outcome of Strategy.Validate.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func result(errs []string) ValidationResult {
	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// Strategy holds everything that differs between order types. Every method
// that writes receives the transaction to write on.
type Strategy interface {
	Type() model.OrderType
	// Validate checks f for the given context. DRAFT tolerates missing
	// data; FIRE demands what the kitchen and floor need.
	Validate(f model.OrderFields, vc model.ValidationContext) ValidationResult
	// CreateExtension inserts the extension row and claims resources.
	CreateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error
	// UpdateExtension applies the supplied fields, creating the row when
	// the order has none yet.
	UpdateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error
	// LoadExtension returns the extension of an order or nil.
	LoadExtension(ctx context.Context, q database.Querier, orderID string) (model.Extension, error)
	// ReleaseResources gives back anything the order holds, such as a table.
	ReleaseResources(ctx context.Context, q database.Querier, o *model.Order) error
	// RemoveExtension releases resources and deletes the extension row.
	RemoveExtension(ctx context.Context, q database.Querier, o *model.Order) error
}

// updateAuditor is implemented by strategies that audit an update against
// the stored extension. AuditUpdate runs before anything is written.
type updateAuditor interface {
	AuditUpdate(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error
}

// requireItems is the FIRE rule shared by every type.
func requireItems(f model.OrderFields, vc model.ValidationContext) []string {
	if vc == model.ValidateFire && f.ItemCount == 0 {
		return []string{"order must contain at least one item"}
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func sameString(a, b *string) bool {
	return deref(a) == deref(b)
}
