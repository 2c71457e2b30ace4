package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// TableRepo reads and updates dining table state. Table CRUD belongs to
// the back office; this service only flips occupancy.
type TableRepo struct{}

// NewTableRepo returns a TableRepo.
func NewTableRepo() *TableRepo { return &TableRepo{} }

// Get loads a table by id.
func (r *TableRepo) Get(ctx context.Context, q database.Querier, id string) (*model.Table, error) {
	var t model.Table
	err := sqlx.GetContext(ctx, q, &t,
		`SELECT id, restaurant_id, label, capacity, status, active_order_id, updated_at
		   FROM restaurant_tables WHERE id = ?`, id)
	if err != nil {
		return nil, translate(err, "get table")
	}
	return &t, nil
}

// UpdateState sets the status and active order of a table.
func (r *TableRepo) UpdateState(ctx context.Context, q database.Querier, id string, status model.TableStatus, activeOrderID *string) error {
	res, err := q.ExecContext(ctx,
		`UPDATE restaurant_tables SET status = ?, active_order_id = ? WHERE id = ?`,
		status, activeOrderID, id)
	if err != nil {
		return translate(err, "update table state")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}
