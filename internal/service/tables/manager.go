// Package tables keeps dining table occupancy in step with order lifecycles.
package tables

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// ErrTableNotFound is returned when acquiring a table that does not exist.
var ErrTableNotFound = errors.New("table not found")

// Manager flips tables between AVAILABLE and OCCUPIED. Both transitions are
// idempotent. Whether a table may be taken at all is decided by the floor
// plan service; Manager does not refuse a table held by another order.
type Manager struct {
	repo model.TableRepository
	log  logrus.FieldLogger
}

// NewManager returns a Manager.
func NewManager(repo model.TableRepository, log logrus.FieldLogger) *Manager {
	return &Manager{repo: repo, log: log}
}

// Acquire marks tableID OCCUPIED by orderID.
func (m *Manager) Acquire(ctx context.Context, q database.Querier, tableID, orderID string) error {
	t, err := m.repo.Get(ctx, q, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.Wrapf(ErrTableNotFound, "table %s", tableID)
		}
		return err
	}
	if t.Status == model.TableOccupied && t.ActiveOrderID != nil && *t.ActiveOrderID == orderID {
		return nil
	}
	if t.ActiveOrderID != nil && *t.ActiveOrderID != orderID {
		m.log.WithFields(logrus.Fields{
			"table_id":        tableID,
			"order_id":        orderID,
			"previous_order":  *t.ActiveOrderID,
			"previous_status": t.Status,
		}).Warn("table reassigned while held by another order")
	}
	id := orderID
	return m.repo.UpdateState(ctx, q, tableID, model.TableOccupied, &id)
}

// Release marks tableID AVAILABLE and clears its active order. Releasing a
// table that no longer exists, or that has been handed to another order,
// is a no-op.
func (m *Manager) Release(ctx context.Context, q database.Querier, tableID, orderID string) error {
	t, err := m.repo.Get(ctx, q, tableID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}
	if t.Status == model.TableAvailable && t.ActiveOrderID == nil {
		return nil
	}
	if t.ActiveOrderID != nil && *t.ActiveOrderID != orderID {
		m.log.WithFields(logrus.Fields{
			"table_id":     tableID,
			"order_id":     orderID,
			"active_order": *t.ActiveOrderID,
		}).Debug("table held by another order; not released")
		return nil
	}
	return m.repo.UpdateState(ctx, q, tableID, model.TableAvailable, nil)
}
