package orders

import (
	"context"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ReservationStrategy records a booked arrival time.
type ReservationStrategy struct {
	repo model.ExtensionRepository[model.ReservationExtension]
}

// NewReservationStrategy returns a ReservationStrategy.
func NewReservationStrategy(repo model.ExtensionRepository[model.ReservationExtension]) *ReservationStrategy {
	return &ReservationStrategy{repo: repo}
}

func (s *ReservationStrategy) Type() model.OrderType { return model.OrderTypeReservation }

func (s *ReservationStrategy) Validate(f model.OrderFields, vc model.ValidationContext) ValidationResult {
	errs := requireItems(f, vc)
	if f.ArrivalStatus != nil {
		switch *f.ArrivalStatus {
		case model.ArrivalPending, model.ArrivalArrived, model.ArrivalNoShow:
		default:
			errs = append(errs, "arrival_status must be one of PENDING, ARRIVED, NO_SHOW")
		}
	}
	if vc == model.ValidateFire && f.ReservationTime == nil {
		errs = append(errs, "reservation_time is required for reservation orders")
	}
	return result(errs)
}

func (s *ReservationStrategy) CreateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	return s.repo.Insert(ctx, q, &model.ReservationExtension{
		OrderID:         o.ID,
		ReservationTime: f.ReservationTime,
		ArrivalStatus:   model.ArrivalPending,
		CustomerName:    f.CustomerName,
		CustomerPhone:   f.CustomerPhone,
	})
}

func (s *ReservationStrategy) UpdateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil {
		return err
	}
	create := ext == nil
	if create {
		ext = &model.ReservationExtension{OrderID: o.ID, ArrivalStatus: model.ArrivalPending}
	}
	if f.ReservationTime != nil {
		ext.ReservationTime = f.ReservationTime
	}
	if f.ArrivalStatus != nil {
		ext.ArrivalStatus = *f.ArrivalStatus
	}
	if f.CustomerName != nil {
		ext.CustomerName = f.CustomerName
	}
	if f.CustomerPhone != nil {
		ext.CustomerPhone = f.CustomerPhone
	}
	if create {
		return s.repo.Insert(ctx, q, ext)
	}
	return s.repo.Update(ctx, q, ext)
}

func (s *ReservationStrategy) LoadExtension(ctx context.Context, q database.Querier, orderID string) (model.Extension, error) {
	ext, err := s.repo.Get(ctx, q, orderID)
	if err != nil || ext == nil {
		return nil, err
	}
	return ext, nil
}

func (s *ReservationStrategy) ReleaseResources(context.Context, database.Querier, *model.Order) error {
	return nil
}

func (s *ReservationStrategy) RemoveExtension(ctx context.Context, q database.Querier, o *model.Order) error {
	return s.repo.Delete(ctx, q, o.ID)
}
