package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// SettingsRepo reads restaurant_settings.
type SettingsRepo struct{}

// NewSettingsRepo returns a SettingsRepo.
func NewSettingsRepo() *SettingsRepo { return &SettingsRepo{} }

// Get returns the pricing settings of a restaurant, or nil if none exist.
func (r *SettingsRepo) Get(ctx context.Context, q database.Querier, restaurantID string) (*model.RestaurantSettings, error) {
	var s model.RestaurantSettings
	err := sqlx.GetContext(ctx, q, &s,
		`SELECT restaurant_id, tax_enabled, tax_rate, service_charge_enabled, service_charge_rate, delivery_fee
		   FROM restaurant_settings WHERE restaurant_id = ?`, restaurantID)
	if err != nil {
		if err = translate(err, "get settings"); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
