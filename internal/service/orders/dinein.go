package orders

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/service/audit"
	"github.com/iliyamo/restaurant-pos/internal/service/tables"
)

// DineInStrategy seats an order at a table.
type DineInStrategy struct {
	repo   model.ExtensionRepository[model.DineInExtension]
	tables *tables.Manager
	audit  *audit.Recorder
	now    func() time.Time
}

// NewDineInStrategy returns a DineInStrategy.
func NewDineInStrategy(repo model.ExtensionRepository[model.DineInExtension], tm *tables.Manager, rec *audit.Recorder, now func() time.Time) *DineInStrategy {
	return &DineInStrategy{repo: repo, tables: tm, audit: rec, now: now}
}

func (s *DineInStrategy) Type() model.OrderType { return model.OrderTypeDineIn }

func (s *DineInStrategy) Validate(f model.OrderFields, vc model.ValidationContext) ValidationResult {
	errs := requireItems(f, vc)
	if f.GuestCount != nil && *f.GuestCount < 1 {
		errs = append(errs, "guest_count must be at least 1")
	}
	if vc == model.ValidateFire {
		if blank(f.TableID) {
			errs = append(errs, "table_id is required for dine-in orders")
		}
		if f.GuestCount == nil {
			errs = append(errs, "guest_count is required for dine-in orders")
		}
	}
	return result(errs)
}

func (s *DineInStrategy) CreateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext := &model.DineInExtension{
		OrderID:  o.ID,
		WaiterID: f.WaiterID,
		SeatedAt: s.now(),
	}
	if !blank(f.TableID) {
		ext.TableID = f.TableID
	}
	if f.GuestCount != nil {
		ext.GuestCount = *f.GuestCount
	}
	if err := s.repo.Insert(ctx, q, ext); err != nil {
		return err
	}
	if ext.TableID != nil {
		return s.acquire(ctx, q, *ext.TableID, o.ID)
	}
	return nil
}

// AuditUpdate records a guest count reduction while the old count is still
// stored.
func (s *DineInStrategy) AuditUpdate(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	if f.GuestCount == nil {
		return nil
	}
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil || ext == nil || *f.GuestCount >= ext.GuestCount {
		return err
	}
	_, err = s.audit.Record(ctx, q, audit.Entry{
		Action:     model.AuditGuestCountReduction,
		EntityType: model.AuditEntityOrder,
		EntityID:   o.ID,
		StaffID:    f.AuthorizedBy,
		Details:    map[string]any{"old_count": ext.GuestCount, "new_count": *f.GuestCount},
	})
	return err
}

func (s *DineInStrategy) UpdateExtension(ctx context.Context, q database.Querier, o *model.Order, f model.OrderFields) error {
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil {
		return err
	}
	if ext == nil {
		return s.CreateExtension(ctx, q, o, f)
	}

	if f.TableID != nil && !sameString(f.TableID, ext.TableID) {
		if ext.TableID != nil {
			if err := s.tables.Release(ctx, q, *ext.TableID, o.ID); err != nil {
				return err
			}
		}
		ext.TableID = nil
		if !blank(f.TableID) {
			if err := s.acquire(ctx, q, *f.TableID, o.ID); err != nil {
				return err
			}
			ext.TableID = f.TableID
		}
	}
	if f.GuestCount != nil {
		ext.GuestCount = *f.GuestCount
	}
	if f.WaiterID != nil {
		ext.WaiterID = f.WaiterID
	}
	return s.repo.Update(ctx, q, ext)
}

func (s *DineInStrategy) LoadExtension(ctx context.Context, q database.Querier, orderID string) (model.Extension, error) {
	ext, err := s.repo.Get(ctx, q, orderID)
	if err != nil || ext == nil {
		return nil, err
	}
	return ext, nil
}

func (s *DineInStrategy) ReleaseResources(ctx context.Context, q database.Querier, o *model.Order) error {
	ext, err := s.repo.Get(ctx, q, o.ID)
	if err != nil || ext == nil || ext.TableID == nil {
		return err
	}
	return s.tables.Release(ctx, q, *ext.TableID, o.ID)
}

func (s *DineInStrategy) RemoveExtension(ctx context.Context, q database.Querier, o *model.Order) error {
	if err := s.ReleaseResources(ctx, q, o); err != nil {
		return err
	}
	return s.repo.Delete(ctx, q, o.ID)
}

func (s *DineInStrategy) acquire(ctx context.Context, q database.Querier, tableID, orderID string) error {
	err := s.tables.Acquire(ctx, q, tableID, orderID)
	if errors.Is(err, tables.ErrTableNotFound) {
		return invalid("table " + tableID + " does not exist")
	}
	return err
}
