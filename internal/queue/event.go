// Package queue carries order notifications over RabbitMQ: the payloads,
// the publisher used by the order service and the kitchen display consumer.
package queue

import (
	"time"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

// EventNewKitchenOrder is the type tag of KitchenOrderEvent.
const EventNewKitchenOrder = "NEW_KITCHEN_ORDER"

// Change feed event types.
const (
	ChangeInsert = "INSERT"
	ChangeUpdate = "UPDATE"
	ChangeDelete = "DELETE"
)

// KitchenOrderEvent is published after an order is fired. Items holds only
// the lines that went to a kitchen station.
type KitchenOrderEvent struct {
	Type         string            `json:"type"`
	OrderID      string            `json:"order_id"`
	RestaurantID string            `json:"restaurant_id"`
	OrderNumber  string            `json:"order_number,omitempty"`
	OrderType    model.OrderType   `json:"order_type,omitempty"`
	Items        []model.OrderItem `json:"items"`
	FiredAt      time.Time         `json:"fired_at"`
}

// DBChangeEvent tells synchronised clients that a row changed.
type DBChangeEvent struct {
	Table     string `json:"table"`
	EventType string `json:"eventType"`
	Data      any    `json:"data"`
}
