package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentTransaction records a settlement. No gateway is involved.
type PaymentTransaction struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	Method    string          `db:"method" json:"method"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
	Reference *string         `db:"reference" json:"reference,omitempty"`
	StaffID   *string         `db:"staff_id" json:"staff_id,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
