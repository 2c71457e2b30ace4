package model

import "github.com/shopspring/decimal"

// RestaurantSettings holds the pricing configuration of a restaurant. Rates
// are percentages: 10 means ten percent.
type RestaurantSettings struct {
	RestaurantID         string          `db:"restaurant_id" json:"restaurant_id"`
	TaxEnabled           bool            `db:"tax_enabled" json:"tax_enabled"`
	TaxRate              decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	ServiceChargeEnabled bool            `db:"service_charge_enabled" json:"service_charge_enabled"`
	ServiceChargeRate    decimal.Decimal `db:"service_charge_rate" json:"service_charge_rate"`
	DeliveryFee          decimal.Decimal `db:"delivery_fee" json:"delivery_fee"`
}

// MenuItemPrep is the kitchen routing snapshot of a menu item.
type MenuItemPrep struct {
	MenuItemID   string  `db:"id"`
	RequiresPrep bool    `db:"requires_prep"`
	StationID    *string `db:"station_id"`
}
