package orders

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/service/tokens"
)

// TakeawayStrategy hands out a pickup token and an estimated pickup time.
type TakeawayStrategy struct {
	repo model.TakeawayRepository
	seq  *tokens.Sequencer
	now  func() time.Time
}

// NewTakeawayStrategy returns a TakeawayStrategy.
func NewTakeawayStrategy(repo model.TakeawayRepository, seq *tokens.Sequencer, now func() time.Time) *TakeawayStrategy {
	return &TakeawayStrategy{repo: repo, seq: seq, now: now}
}

func (s *TakeawayStrategy) Type() model.OrderType { return model.OrderTypeTakeaway }

func (s *TakeawayStrategy) Validate(f model.OrderFields, vc model.ValidationContext) ValidationResult {
	return result(requireItems(f, vc))
}

func (s *TakeawayStrategy) CreateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	now := s.now()
	tok, err := s.seq.Next(ctx, q, now)
	if err != nil {
		return err
	}
	ext := &model.TakeawayExtension{
		OrderID:       o.ID,
		Token:         tok.Value,
		TokenNumber:   tok.Number,
		TokenDate:     tok.Date,
		PickupTime:    tokens.PickupEstimate(now, f.ItemCount),
		CustomerName:  f.CustomerName,
		CustomerPhone: f.CustomerPhone,
	}
	if err := s.repo.Insert(ctx, q, ext); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return errors.Wrapf(tokens.ErrTokenConflict, "token %s on %s", tok.Value, tok.Date)
		}
		return err
	}
	return nil
}

func (s *TakeawayStrategy) UpdateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil {
		return err
	}
	if ext == nil {
		return s.CreateExtension(ctx, q, o, f)
	}
	if f.CustomerName != nil {
		ext.CustomerName = f.CustomerName
	}
	if f.CustomerPhone != nil {
		ext.CustomerPhone = f.CustomerPhone
	}
	return s.repo.Update(ctx, q, ext)
}

func (s *TakeawayStrategy) LoadExtension(ctx context.Context, q database.Querier, orderID string) (model.Extension, error) {
	ext, err := s.repo.Get(ctx, q, orderID)
	if err != nil || ext == nil {
		return nil, err
	}
	return ext, nil
}

func (s *TakeawayStrategy) ReleaseResources(context.Context, database.Querier, *model.Order) error {
	return nil
}

func (s *TakeawayStrategy) RemoveExtension(ctx context.Context, q database.Querier, o *model.Order) error {
	return s.repo.Delete(ctx, q, o.ID)
}
