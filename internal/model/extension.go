package model

import "time"

// Extension is the type-specific record attached to an order.
type Extension interface {
	Kind() OrderType
	// Populate copies the extension's values into f.
	Populate(f *OrderFields)
}

// DineInExtension ties an order to a table.
type DineInExtension struct {
	OrderID    string    `db:"order_id" json:"order_id"`
	TableID    *string   `db:"table_id" json:"table_id,omitempty"`
	GuestCount int       `db:"guest_count" json:"guest_count"`
	WaiterID   *string   `db:"waiter_id" json:"waiter_id,omitempty"`
	SeatedAt   time.Time `db:"seated_at" json:"seated_at"`
}

func (e *DineInExtension) Kind() OrderType { return OrderTypeDineIn }

func (e *DineInExtension) Populate(f *OrderFields) {
	f.TableID = e.TableID
	if e.GuestCount > 0 {
		n := e.GuestCount
		f.GuestCount = &n
	}
	f.WaiterID = e.WaiterID
}

// TakeawayExtension carries the daily pickup token.
type TakeawayExtension struct {
	OrderID       string    `db:"order_id" json:"order_id"`
	Token         string    `db:"token" json:"token"`
	TokenNumber   int       `db:"token_number" json:"token_number"`
	TokenDate     string    `db:"token_date" json:"token_date"`
	PickupTime    time.Time `db:"pickup_time" json:"pickup_time"`
	PickedUp      bool      `db:"picked_up" json:"picked_up"`
	CustomerName  *string   `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone *string   `db:"customer_phone" json:"customer_phone,omitempty"`
}

func (e *TakeawayExtension) Kind() OrderType { return OrderTypeTakeaway }

func (e *TakeawayExtension) Populate(f *OrderFields) {
	f.CustomerName = e.CustomerName
	f.CustomerPhone = e.CustomerPhone
}

// DeliveryExtension holds the drop-off details.
type DeliveryExtension struct {
	OrderID         string  `db:"order_id" json:"order_id"`
	CustomerName    string  `db:"customer_name" json:"customer_name"`
	CustomerPhone   string  `db:"customer_phone" json:"customer_phone"`
	DeliveryAddress string  `db:"delivery_address" json:"delivery_address"`
	DriverID        *string `db:"driver_id" json:"driver_id,omitempty"`
}

func (e *DeliveryExtension) Kind() OrderType { return OrderTypeDelivery }

func (e *DeliveryExtension) Populate(f *OrderFields) {
	f.CustomerName = nonEmpty(e.CustomerName)
	f.CustomerPhone = nonEmpty(e.CustomerPhone)
	f.DeliveryAddress = nonEmpty(e.DeliveryAddress)
	f.DriverID = e.DriverID
}

// ArrivalStatus values for reservations.
const (
	ArrivalPending = "PENDING"
	ArrivalArrived = "ARRIVED"
	ArrivalNoShow  = "NO_SHOW"
)

// ReservationExtension books a future arrival.
type ReservationExtension struct {
	OrderID         string     `db:"order_id" json:"order_id"`
	ReservationTime *time.Time `db:"reservation_time" json:"reservation_time,omitempty"`
	ArrivalStatus   string     `db:"arrival_status" json:"arrival_status"`
	CustomerName    *string    `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone   *string    `db:"customer_phone" json:"customer_phone,omitempty"`
}

func (e *ReservationExtension) Kind() OrderType { return OrderTypeReservation }

func (e *ReservationExtension) Populate(f *OrderFields) {
	f.ReservationTime = e.ReservationTime
	f.CustomerName = e.CustomerName
	f.CustomerPhone = e.CustomerPhone
	if e.ArrivalStatus != "" {
		s := e.ArrivalStatus
		f.ArrivalStatus = &s
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
