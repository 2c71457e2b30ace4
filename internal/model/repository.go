package model

import (
	"context"

	"github.com/iliyamo/restaurant-pos/internal/database"
)

// Every repository method takes the Querier to run on. Passing a
// transaction makes the call part of that unit of work; passing the pool
// runs it on its own. Lookups of single rows return repository.ErrNotFound
// when nothing matches unless documented otherwise.

type OrderRepository interface {
	Insert(ctx context.Context, q database.Querier, o *Order) error
	Get(ctx context.Context, q database.Querier, id string) (*Order, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, q database.Querier, id string) (*Order, error)
	Update(ctx context.Context, q database.Querier, o *Order) error
	Delete(ctx context.Context, q database.Querier, id string) (bool, error)
}

type OrderItemRepository interface {
	InsertBulk(ctx context.Context, q database.Querier, items []OrderItem) error
	ListByOrder(ctx context.Context, q database.Querier, orderID string) ([]OrderItem, error)
	DeleteByOrder(ctx context.Context, q database.Querier, orderID string) error
	UpdateKitchenState(ctx context.Context, q database.Querier, item *OrderItem) error
}

// ExtensionRepository stores one extension kind keyed by order id. Get
// returns (nil, nil) when the order has no row of this kind.
type ExtensionRepository[T any] interface {
	Get(ctx context.Context, q database.Querier, orderID string) (*T, error)
	Insert(ctx context.Context, q database.Querier, ext *T) error
	Update(ctx context.Context, q database.Querier, ext *T) error
	Delete(ctx context.Context, q database.Querier, orderID string) error
}

// TakeawayRepository adds token lookups. Insert reports a clash on
// (token_date, token_number) as repository.ErrDuplicate.
type TakeawayRepository interface {
	ExtensionRepository[TakeawayExtension]
	ListTokens(ctx context.Context, q database.Querier, tokenDate string) ([]string, error)
}

type TableRepository interface {
	Get(ctx context.Context, q database.Querier, id string) (*Table, error)
	UpdateState(ctx context.Context, q database.Querier, id string, status TableStatus, activeOrderID *string) error
}

type AuditRepository interface {
	Insert(ctx context.Context, q database.Querier, e *AuditEntry) error
	ListByEntity(ctx context.Context, q database.Querier, entityType, entityID string) ([]AuditEntry, error)
}

// CustomerRepository manages customers and their address books.
// FindByPhone returns (nil, nil) when no customer matches.
type CustomerRepository interface {
	FindByPhone(ctx context.Context, q database.Querier, restaurantID, phone string) (*Customer, error)
	Insert(ctx context.Context, q database.Querier, c *Customer) error
	ListAddresses(ctx context.Context, q database.Querier, customerID string) ([]CustomerAddress, error)
	InsertAddress(ctx context.Context, q database.Querier, a *CustomerAddress) error
}

// MenuRepository returns kitchen routing data keyed by menu item id.
// Unknown ids are simply absent from the result.
type MenuRepository interface {
	PrepInfo(ctx context.Context, q database.Querier, menuItemIDs []string) (map[string]MenuItemPrep, error)
}

type PaymentRepository interface {
	Insert(ctx context.Context, q database.Querier, p *PaymentTransaction) error
	ListByOrder(ctx context.Context, q database.Querier, orderID string) ([]PaymentTransaction, error)
	DeleteByOrder(ctx context.Context, q database.Querier, orderID string) error
}

// SettingsRepository returns (nil, nil) for a restaurant without settings.
type SettingsRepository interface {
	Get(ctx context.Context, q database.Querier, restaurantID string) (*RestaurantSettings, error)
}
