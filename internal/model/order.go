package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderType is the service mode of an order. Each type owns exactly one
// extension record.
type OrderType string

const (
	OrderTypeDineIn      OrderType = "DINE_IN"
	OrderTypeTakeaway    OrderType = "TAKEAWAY"
	OrderTypeDelivery    OrderType = "DELIVERY"
	OrderTypeReservation OrderType = "RESERVATION"
)

// OrderStatus is the lifecycle position of an order.
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "DRAFT"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusReady     OrderStatus = "READY"
	OrderStatusServed    OrderStatus = "SERVED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
	OrderStatusVoided    OrderStatus = "VOIDED"
)

// IsTerminal reports whether no further transition is permitted.
func (s OrderStatus) IsTerminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusPaid, OrderStatusCancelled, OrderStatusVoided:
		return true
	}
	return false
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusConfirmed, OrderStatusPreparing, OrderStatusReady,
		OrderStatusServed, OrderStatusCompleted, OrderStatusPaid, OrderStatusCancelled, OrderStatusVoided:
		return true
	}
	return false
}

// ItemStatus tracks an order line through the kitchen.
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "PENDING"
	ItemStatusFired   ItemStatus = "FIRED"
	ItemStatusReady   ItemStatus = "READY"
	ItemStatusServed  ItemStatus = "SERVED"
	ItemStatusVoided  ItemStatus = "VOIDED"
)

// Order is the aggregate root. Items and Extension are populated when the
// order is loaded with its details.
type Order struct {
	ID            string          `db:"id" json:"id"`
	RestaurantID  string          `db:"restaurant_id" json:"restaurant_id"`
	OrderNumber   string          `db:"order_number" json:"order_number"`
	Type          OrderType       `db:"type" json:"type"`
	Status        OrderStatus     `db:"status" json:"status"`
	CustomerID    *string         `db:"customer_id" json:"customer_id,omitempty"`
	Notes         *string         `db:"notes" json:"notes,omitempty"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax           decimal.Decimal `db:"tax" json:"tax"`
	ServiceCharge decimal.Decimal `db:"service_charge" json:"service_charge"`
	DeliveryFee   decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	CreatedBy     *string         `db:"created_by" json:"created_by,omitempty"`
	FiredAt       *time.Time      `db:"fired_at" json:"fired_at,omitempty"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Items     []OrderItem `db:"-" json:"items"`
	Extension Extension   `db:"-" json:"extension,omitempty"`
}

// Fields flattens the persisted order and its extension into the shape
// the type strategies validate.
func (o *Order) Fields() OrderFields {
	f := OrderFields{ItemCount: len(o.Items)}
	if o.Extension != nil {
		o.Extension.Populate(&f)
	}
	return f
}

// OrderItem is one order line. TotalPrice equals UnitPrice × Quantity unless
// it was supplied explicitly.
type OrderItem struct {
	ID         string          `db:"id" json:"id"`
	OrderID    string          `db:"order_id" json:"order_id"`
	MenuItemID string          `db:"menu_item_id" json:"menu_item_id"`
	Name       string          `db:"name" json:"name"`
	Quantity   int             `db:"quantity" json:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price" json:"unit_price"`
	TotalPrice decimal.Decimal `db:"total_price" json:"total_price"`
	Status     ItemStatus      `db:"item_status" json:"item_status"`
	StationID  *string         `db:"station_id" json:"station_id,omitempty"`
	Notes      *string         `db:"notes" json:"notes,omitempty"`
	FiredAt    *time.Time      `db:"fired_at" json:"fired_at,omitempty"`
	Position   int             `db:"position" json:"-"`
}

// LineTotal is unit price times quantity, ignoring any TotalPrice override.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
