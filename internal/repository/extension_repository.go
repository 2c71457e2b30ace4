package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// extensionTable describes how one extension kind maps onto its table. The
// four order types only differ in table name and columns, so they share the
// generic implementation below.
type extensionTable struct {
	name    string
	columns string
	values  string
	updates string
	// selectColumns defaults to columns.
	selectColumns string
}

// ExtensionRepo implements model.ExtensionRepository for one extension kind.
type ExtensionRepo[T any] struct {
	table extensionTable
}

// Get returns the extension row of an order, or nil when there is none.
func (r *ExtensionRepo[T]) Get(ctx context.Context, q database.Querier, orderID string) (*T, error) {
	cols := r.table.selectColumns
	if cols == "" {
		cols = r.table.columns
	}
	var ext T
	err := sqlx.GetContext(ctx, q, &ext, `SELECT `+cols+` FROM `+r.table.name+` WHERE order_id = ?`, orderID)
	if err != nil {
		if err = translate(err, "get "+r.table.name); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ext, nil
}

// Insert writes a new extension row.
func (r *ExtensionRepo[T]) Insert(ctx context.Context, q database.Querier, ext *T) error {
	stmt := `INSERT INTO ` + r.table.name + ` (` + r.table.columns + `) VALUES (` + r.table.values + `)`
	_, err := sqlx.NamedExecContext(ctx, q, stmt, ext)
	return translate(err, "insert "+r.table.name)
}

// Update rewrites the mutable columns of an extension row.
func (r *ExtensionRepo[T]) Update(ctx context.Context, q database.Querier, ext *T) error {
	stmt := `UPDATE ` + r.table.name + ` SET ` + r.table.updates + ` WHERE order_id = :order_id`
	_, err := sqlx.NamedExecContext(ctx, q, stmt, ext)
	return translate(err, "update "+r.table.name)
}

// Delete removes the extension row of an order if present.
func (r *ExtensionRepo[T]) Delete(ctx context.Context, q database.Querier, orderID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM `+r.table.name+` WHERE order_id = ?`, orderID)
	return translate(err, "delete "+r.table.name)
}

// NewDineInRepo stores dine_in_orders rows.
func NewDineInRepo() *ExtensionRepo[model.DineInExtension] {
	return &ExtensionRepo[model.DineInExtension]{table: extensionTable{
		name:    "dine_in_orders",
		columns: "order_id, table_id, guest_count, waiter_id, seated_at",
		values:  ":order_id, :table_id, :guest_count, :waiter_id, :seated_at",
		updates: "table_id = :table_id, guest_count = :guest_count, waiter_id = :waiter_id, seated_at = :seated_at",
	}}
}

// NewDeliveryRepo stores delivery_orders rows.
func NewDeliveryRepo() *ExtensionRepo[model.DeliveryExtension] {
	return &ExtensionRepo[model.DeliveryExtension]{table: extensionTable{
		name:    "delivery_orders",
		columns: "order_id, customer_name, customer_phone, delivery_address, driver_id",
		values:  ":order_id, :customer_name, :customer_phone, :delivery_address, :driver_id",
		updates: "customer_name = :customer_name, customer_phone = :customer_phone, delivery_address = :delivery_address, driver_id = :driver_id",
	}}
}

// NewReservationRepo stores reservation_orders rows.
func NewReservationRepo() *ExtensionRepo[model.ReservationExtension] {
	return &ExtensionRepo[model.ReservationExtension]{table: extensionTable{
		name:    "reservation_orders",
		columns: "order_id, reservation_time, arrival_status, customer_name, customer_phone",
		values:  ":order_id, :reservation_time, :arrival_status, :customer_name, :customer_phone",
		updates: "reservation_time = :reservation_time, arrival_status = :arrival_status, customer_name = :customer_name, customer_phone = :customer_phone",
	}}
}
