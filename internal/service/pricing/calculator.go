// Package pricing computes the financial breakdown of an order.
package pricing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// Breakdown is the money side of an order. Values keep full precision;
// rounding happens only when displayed.
type Breakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	ServiceCharge decimal.Decimal `json:"service_charge"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// Apply copies the breakdown onto o.
func (b Breakdown) Apply(o *model.Order) {
	o.Subtotal = b.Subtotal
	o.Tax = b.Tax
	o.ServiceCharge = b.ServiceCharge
	o.DeliveryFee = b.DeliveryFee
	o.Discount = b.Discount
	o.Total = b.Total
}

// Compute derives the breakdown:
//
//	subtotal       = Σ unit_price × quantity
//	tax            = subtotal × tax_rate / 100             if tax is enabled
//	service_charge = subtotal × service_charge_rate / 100  if enabled and DINE_IN
//	delivery_fee   = configured fee                  if DELIVERY
//	total          = subtotal + tax + service_charge + delivery_fee − discount
func Compute(s model.RestaurantSettings, orderType model.OrderType, items []model.OrderItem, discount decimal.Decimal) Breakdown {
	b := Breakdown{Discount: discount}
	for _, it := range items {
		b.Subtotal = b.Subtotal.Add(it.LineTotal())
	}
	if s.TaxEnabled {
		b.Tax = percentOf(b.Subtotal, s.TaxRate)
	}
	if s.ServiceChargeEnabled && orderType == model.OrderTypeDineIn {
		b.ServiceCharge = percentOf(b.Subtotal, s.ServiceChargeRate)
	}
	if orderType == model.OrderTypeDelivery {
		b.DeliveryFee = s.DeliveryFee
	}
	b.Total = b.Subtotal.Add(b.Tax).Add(b.ServiceCharge).Add(b.DeliveryFee).Sub(discount)
	return b
}

func percentOf(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Shift(-2)
}

// SettingsSource resolves the pricing settings of a restaurant. A
// restaurant without settings gets the zero value: no tax, no service
// charge, no delivery fee.
type SettingsSource interface {
	Settings(ctx context.Context, q database.Querier, restaurantID string) (model.RestaurantSettings, error)
}

// RepoSettings reads settings straight from the repository.
type RepoSettings struct {
	repo model.SettingsRepository
}

// NewRepoSettings returns a RepoSettings.
func NewRepoSettings(repo model.SettingsRepository) *RepoSettings {
	return &RepoSettings{repo: repo}
}

// Settings implements SettingsSource.
func (r *RepoSettings) Settings(ctx context.Context, q database.Querier, restaurantID string) (model.RestaurantSettings, error) {
	s, err := r.repo.Get(ctx, q, restaurantID)
	if err != nil {
		return model.RestaurantSettings{}, err
	}
	if s == nil {
		return model.RestaurantSettings{RestaurantID: restaurantID}, nil
	}
	return *s, nil
}

// Calculator combines a settings source with Compute.
type Calculator struct {
	settings SettingsSource
}

// NewCalculator returns a Calculator.
func NewCalculator(settings SettingsSource) *Calculator {
	return &Calculator{settings: settings}
}

// Calculate loads the restaurant's settings and computes the breakdown.
func (c *Calculator) Calculate(ctx context.Context, q database.Querier, restaurantID string, orderType model.OrderType, items []model.OrderItem, discount decimal.Decimal) (Breakdown, error) {
	s, err := c.settings.Settings(ctx, q, restaurantID)
	if err != nil {
		return Breakdown{}, err
	}
	return Compute(s, orderType, items, discount), nil
}
