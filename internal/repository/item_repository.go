package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// ItemRepo stores order lines in order_items.
type ItemRepo struct{}

// NewItemRepo returns an ItemRepo.
func NewItemRepo() *ItemRepo { return &ItemRepo{} }

const itemColumns = `id, order_id, menu_item_id, name, quantity, unit_price, total_price,
	item_status, station_id, notes, fired_at, position`

// InsertBulk inserts all items in a single statement. An empty slice is a
// no-op.
func (r *ItemRepo) InsertBulk(ctx context.Context, q database.Querier, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	const stmt = `INSERT INTO order_items (` + itemColumns + `) VALUES
		(:id, :order_id, :menu_item_id, :name, :quantity, :unit_price, :total_price,
		 :item_status, :station_id, :notes, :fired_at, :position)`
	_, err := sqlx.NamedExecContext(ctx, q, stmt, items)
	return translate(err, "insert order items")
}

// ListByOrder returns the lines of an order in their original sequence.
func (r *ItemRepo) ListByOrder(ctx context.Context, q database.Querier, orderID string) ([]model.OrderItem, error) {
	items := []model.OrderItem{}
	err := sqlx.SelectContext(ctx, q, &items,
		`SELECT `+itemColumns+` FROM order_items WHERE order_id = ? ORDER BY position, id`, orderID)
	if err != nil {
		return nil, translate(err, "list order items")
	}
	return items, nil
}

// DeleteByOrder removes every line of an order.
func (r *ItemRepo) DeleteByOrder(ctx context.Context, q database.Querier, orderID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = ?`, orderID)
	return translate(err, "delete order items")
}

// UpdateKitchenState persists the status, station snapshot and fire time of
// a single line.
func (r *ItemRepo) UpdateKitchenState(ctx context.Context, q database.Querier, item *model.OrderItem) error {
	const stmt = `UPDATE order_items SET item_status = :item_status, station_id = :station_id, fired_at = :fired_at
		WHERE id = :id`
	_, err := sqlx.NamedExecContext(ctx, q, stmt, item)
	return translate(err, "update order item")
}
