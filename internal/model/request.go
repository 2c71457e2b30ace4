package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidationContext selects how strictly an order is checked.
type ValidationContext string

const (
	// ValidateDraft is lenient: incomplete orders may be saved.
	ValidateDraft ValidationContext = "DRAFT"
	// ValidateFire requires everything the kitchen and floor need.
	ValidateFire ValidationContext = "FIRE"
)

// ItemInput is an order line as supplied by a client.
type ItemInput struct {
	MenuItemID string           `json:"menu_item_id"`
	Name       string           `json:"name"`
	Quantity   int              `json:"quantity"`
	UnitPrice  decimal.Decimal  `json:"unit_price"`
	TotalPrice *decimal.Decimal `json:"total_price,omitempty"`
	Notes      *string          `json:"notes,omitempty"`
	StationID  *string          `json:"station_id,omitempty"`
}

// OrderFields is the type-agnostic view of everything an extension may
// carry. Nil means "not supplied".
type OrderFields struct {
	ItemCount       int
	TableID         *string
	GuestCount      *int
	WaiterID        *string
	CustomerName    *string
	CustomerPhone   *string
	DeliveryAddress *string
	DriverID        *string
	ReservationTime *time.Time
	ArrivalStatus   *string
	// AuthorizedBy is the staff member approving exceptional changes.
	AuthorizedBy *string
}

// CreateOrderRequest is the input of order creation.
type CreateOrderRequest struct {
	RestaurantID    string           `json:"restaurant_id"`
	Type            OrderType        `json:"type"`
	OrderNumber     string           `json:"order_number,omitempty"`
	Items           []ItemInput      `json:"items"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	CreatedBy       *string          `json:"created_by,omitempty"`
	TableID         *string          `json:"table_id,omitempty"`
	GuestCount      *int             `json:"guest_count,omitempty"`
	WaiterID        *string          `json:"waiter_id,omitempty"`
	CustomerName    *string          `json:"customer_name,omitempty"`
	CustomerPhone   *string          `json:"customer_phone,omitempty"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	DriverID        *string          `json:"driver_id,omitempty"`
	ReservationTime *time.Time       `json:"reservation_time,omitempty"`
}

// Fields projects the request onto OrderFields.
func (r *CreateOrderRequest) Fields() OrderFields {
	return OrderFields{
		ItemCount:       len(r.Items),
		TableID:         r.TableID,
		GuestCount:      r.GuestCount,
		WaiterID:        r.WaiterID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		DriverID:        r.DriverID,
		ReservationTime: r.ReservationTime,
		AuthorizedBy:    r.CreatedBy,
	}
}

// UpdateOrderRequest is a partial update. A nil Items slice leaves the lines
// untouched; a non-nil slice, even empty, replaces all of them.
type UpdateOrderRequest struct {
	Type            *OrderType       `json:"type,omitempty"`
	Status          *OrderStatus     `json:"status,omitempty"`
	Items           []ItemInput      `json:"items,omitempty"`
	Discount        *decimal.Decimal `json:"discount,omitempty"`
	Notes           *string          `json:"notes,omitempty"`
	TableID         *string          `json:"table_id,omitempty"`
	GuestCount      *int             `json:"guest_count,omitempty"`
	WaiterID        *string          `json:"waiter_id,omitempty"`
	CustomerName    *string          `json:"customer_name,omitempty"`
	CustomerPhone   *string          `json:"customer_phone,omitempty"`
	DeliveryAddress *string          `json:"delivery_address,omitempty"`
	DriverID        *string          `json:"driver_id,omitempty"`
	ReservationTime *time.Time       `json:"reservation_time,omitempty"`
	ArrivalStatus   *string          `json:"arrival_status,omitempty"`
	AuthorizedBy    *string          `json:"authorized_by,omitempty"`
	Reason          *string          `json:"reason,omitempty"`
}

// Fields projects the request onto OrderFields. itemCount is the number of
// lines the order will have once the update is applied.
func (r *UpdateOrderRequest) Fields(itemCount int) OrderFields {
	return OrderFields{
		ItemCount:       itemCount,
		TableID:         r.TableID,
		GuestCount:      r.GuestCount,
		WaiterID:        r.WaiterID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		DriverID:        r.DriverID,
		ReservationTime: r.ReservationTime,
		ArrivalStatus:   r.ArrivalStatus,
		AuthorizedBy:    r.AuthorizedBy,
	}
}

// SettleRequest records a payment against an order.
type SettleRequest struct {
	Method    string          `json:"method"`
	Amount    decimal.Decimal `json:"amount"`
	Reference *string         `json:"reference,omitempty"`
	StaffID   *string         `json:"staff_id,omitempty"`
	// Force allows settling while kitchen items are still outstanding.
	Force bool `json:"force"`
}
