package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// CustomerRepo stores customers and their address books.
type CustomerRepo struct{}

// NewCustomerRepo returns a CustomerRepo.
func NewCustomerRepo() *CustomerRepo { return &CustomerRepo{} }

// FindByPhone returns the customer with phone in restaurantID, or nil.
func (r *CustomerRepo) FindByPhone(ctx context.Context, q database.Querier, restaurantID, phone string) (*model.Customer, error) {
	var c model.Customer
	err := sqlx.GetContext(ctx, q, &c,
		`SELECT id, restaurant_id, name, phone, created_at FROM customers
		  WHERE restaurant_id = ? AND phone = ?`, restaurantID, phone)
	if err != nil {
		if err = translate(err, "find customer"); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Insert creates a customer.
func (r *CustomerRepo) Insert(ctx context.Context, q database.Querier, c *model.Customer) error {
	_, err := sqlx.NamedExecContext(ctx, q,
		`INSERT INTO customers (id, restaurant_id, name, phone, created_at)
		 VALUES (:id, :restaurant_id, :name, :phone, :created_at)`, c)
	return translate(err, "insert customer")
}

// ListAddresses returns a customer's saved addresses, oldest first.
func (r *CustomerRepo) ListAddresses(ctx context.Context, q database.Querier, customerID string) ([]model.CustomerAddress, error) {
	out := []model.CustomerAddress{}
	err := sqlx.SelectContext(ctx, q, &out,
		`SELECT id, customer_id, address, created_at FROM customer_addresses
		  WHERE customer_id = ? ORDER BY created_at, id`, customerID)
	if err != nil {
		return nil, translate(err, "list customer addresses")
	}
	return out, nil
}

// InsertAddress adds an address to a customer's book.
func (r *CustomerRepo) InsertAddress(ctx context.Context, q database.Querier, a *model.CustomerAddress) error {
	_, err := sqlx.NamedExecContext(ctx, q,
		`INSERT INTO customer_addresses (id, customer_id, address, created_at)
		 VALUES (:id, :customer_id, :address, :created_at)`, a)
	return translate(err, "insert customer address")
}
