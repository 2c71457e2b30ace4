package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// OrderRepo persists the base order row. Items and extensions live in
// their own tables and repositories.
type OrderRepo struct{}

// NewOrderRepo returns an OrderRepo.
func NewOrderRepo() *OrderRepo { return &OrderRepo{} }

const orderColumns = `id, restaurant_id, order_number, type, status, customer_id, notes,
	subtotal, tax, service_charge, delivery_fee, discount, total,
	created_by, fired_at, created_at, updated_at`

// Insert writes a new order. The caller assigns ID and timestamps.
func (r *OrderRepo) Insert(ctx context.Context, q database.Querier, o *model.Order) error {
	const stmt = `INSERT INTO orders (` + orderColumns + `) VALUES
		(:id, :restaurant_id, :order_number, :type, :status, :customer_id, :notes,
		 :subtotal, :tax, :service_charge, :delivery_fee, :discount, :total,
		 :created_by, :fired_at, :created_at, :updated_at)`
	_, err := sqlx.NamedExecContext(ctx, q, stmt, o)
	return translate(err, "insert order")
}

// Get loads an order by id without locking.
func (r *OrderRepo) Get(ctx context.Context, q database.Querier, id string) (*model.Order, error) {
	var o model.Order
	err := sqlx.GetContext(ctx, q, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	if err != nil {
		return nil, translate(err, "get order")
	}
	return &o, nil
}

// GetForUpdate loads an order and holds a row lock until the transaction
// ends. Outside a transaction the lock is released immediately.
func (r *OrderRepo) GetForUpdate(ctx context.Context, q database.Querier, id string) (*model.Order, error) {
	var o model.Order
	err := sqlx.GetContext(ctx, q, &o, `SELECT `+orderColumns+` FROM orders WHERE id = ? FOR UPDATE`, id)
	if err != nil {
		return nil, translate(err, "lock order")
	}
	return &o, nil
}

// Update rewrites every mutable column of the order.
func (r *OrderRepo) Update(ctx context.Context, q database.Querier, o *model.Order) error {
	const stmt = `UPDATE orders SET
		type = :type, status = :status, customer_id = :customer_id, notes = :notes,
		subtotal = :subtotal, tax = :tax, service_charge = :service_charge,
		delivery_fee = :delivery_fee, discount = :discount, total = :total,
		fired_at = :fired_at, updated_at = :updated_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, q, stmt, o)
	if err != nil {
		return translate(err, "update order")
	}
	// MySQL reports zero affected rows when nothing changed, so only a
	// missing row is treated as an error.
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, q, o.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the order row and reports whether it existed.
func (r *OrderRepo) Delete(ctx context.Context, q database.Querier, id string) (bool, error) {
	res, err := q.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return false, translate(err, "delete order")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete order")
	}
	return n > 0, nil
}
