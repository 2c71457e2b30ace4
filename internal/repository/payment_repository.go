package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// PaymentRepo records settlements in payment_transactions.
type PaymentRepo struct{}

// NewPaymentRepo returns a PaymentRepo.
func NewPaymentRepo() *PaymentRepo { return &PaymentRepo{} }

// Insert records one payment.
func (r *PaymentRepo) Insert(ctx context.Context, q database.Querier, p *model.PaymentTransaction) error {
	_, err := sqlx.NamedExecContext(ctx, q,
		`INSERT INTO payment_transactions (id, order_id, method, amount, reference, staff_id, created_at)
		 VALUES (:id, :order_id, :method, :amount, :reference, :staff_id, :created_at)`, p)
	return translate(err, "insert payment")
}

// ListByOrder returns the payments of an order, oldest first.
func (r *PaymentRepo) ListByOrder(ctx context.Context, q database.Querier, orderID string) ([]model.PaymentTransaction, error) {
	out := []model.PaymentTransaction{}
	err := sqlx.SelectContext(ctx, q, &out,
		`SELECT id, order_id, method, amount, reference, staff_id, created_at
		   FROM payment_transactions WHERE order_id = ? ORDER BY created_at, id`, orderID)
	if err != nil {
		return nil, translate(err, "list payments")
	}
	return out, nil
}

// DeleteByOrder removes every payment of an order.
func (r *PaymentRepo) DeleteByOrder(ctx context.Context, q database.Querier, orderID string) error {
	_, err := q.ExecContext(ctx, `DELETE FROM payment_transactions WHERE order_id = ?`, orderID)
	return translate(err, "delete payments")
}
