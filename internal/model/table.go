package model

import "time"

// TableStatus is the physical state of a dining table.
type TableStatus string

const (
	TableAvailable    TableStatus = "AVAILABLE"
	TableOccupied     TableStatus = "OCCUPIED"
	TableDirty        TableStatus = "DIRTY"
	TableCleaning     TableStatus = "CLEANING"
	TableReserved     TableStatus = "RESERVED"
	TableOutOfService TableStatus = "OUT_OF_SERVICE"
)

// Table is a dining table. ActiveOrderID is set exactly while the table is
// OCCUPIED by a non-terminal order.
type Table struct {
	ID            string      `db:"id" json:"id"`
	RestaurantID  string      `db:"restaurant_id" json:"restaurant_id"`
	Label         string      `db:"label" json:"label"`
	Capacity      int         `db:"capacity" json:"capacity"`
	Status        TableStatus `db:"status" json:"status"`
	ActiveOrderID *string     `db:"active_order_id" json:"active_order_id,omitempty"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}
