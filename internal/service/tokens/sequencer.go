// Package tokens issues the daily takeaway pickup tokens.
package tokens

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ErrTokenConflict is returned when a concurrent transaction claimed the
// same token first. The whole transaction should be retried.
var ErrTokenConflict = errors.New("takeaway token already taken")

// Prefix precedes the sequence number of every token.
const Prefix = "T-"

// DateLayout is the format of token date keys.
const DateLayout = "2006-01-02"

// Token is an allocated, not yet persisted, pickup token.
type Token struct {
	Value  string
	Number int
	Date   string
}

// Sequencer allocates the next token of a day by scanning the tokens already
// issued. Uniqueness under concurrency is enforced by the store's unique key
// on (token_date, token_number), not here.
type Sequencer struct {
	repo model.TakeawayRepository
}

// NewSequencer returns a Sequencer.
func NewSequencer(repo model.TakeawayRepository) *Sequencer {
	return &Sequencer{repo: repo}
}

// Next returns the token following the highest one issued on day.
func (s *Sequencer) Next(ctx context.Context, q database.Querier, day time.Time) (Token, error) {
	key := day.Format(DateLayout)
	issued, err := s.repo.ListTokens(ctx, q, key)
	if err != nil {
		return Token{}, errors.Wrap(err, "scan tokens")
	}
	highest := 0
	for _, tok := range issued {
		if n, ok := ParseNumber(tok); ok && n > highest {
			highest = n
		}
	}
	n := highest + 1
	return Token{Value: Format(n), Number: n, Date: key}, nil
}

// Format renders n zero-padded to three digits; larger numbers are
// rendered as is.
func Format(n int) string {
	return fmt.Sprintf("%s%03d", Prefix, n)
}

// ParseNumber extracts the numeric suffix of a token. Tokens without a
// trailing positive integer are reported as malformed.
func ParseNumber(token string) (int, bool) {
	i := strings.LastIndexAny(token, "-#")
	suffix := token[i+1:]
	if suffix == "" {
		return 0, false
	}
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PickupEstimate is ten minutes plus two per item, capped at thirty.
func PickupEstimate(now time.Time, itemCount int) time.Time {
	minutes := 10 + 2*itemCount
	if minutes > 30 {
		minutes = 30
	}
	return now.Add(time.Duration(minutes) * time.Minute)
}
