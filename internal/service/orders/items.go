package orders

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/restaurant-pos/internal/model"
)

func validateItems(inputs []model.ItemInput) []string {
	var errs []string
	for i, in := range inputs {
		if strings.TrimSpace(in.MenuItemID) == "" {
			errs = append(errs, fmt.Sprintf("items[%d].menu_item_id is required", i))
		}
		if in.Quantity < 1 {
			errs = append(errs, fmt.Sprintf("items[%d].quantity must be at least 1", i))
		}
		if in.UnitPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("items[%d].unit_price must not be negative", i))
		}
		if in.TotalPrice != nil && in.TotalPrice.IsNegative() {
			errs = append(errs, fmt.Sprintf("items[%d].total_price must not be negative", i))
		}
	}
	return errs
}

func validateDiscount(d *decimal.Decimal) []string {
	if d != nil && d.IsNegative() {
		return []string{"discount must not be negative"}
	}
	return nil
}

// buildItems turns client lines into PENDING order items. TotalPrice
// defaults to unit price times quantity.
func buildItems(orderID string, inputs []model.ItemInput) []model.OrderItem {
	items := make([]model.OrderItem, 0, len(inputs))
	for i, in := range inputs {
		it := model.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    orderID,
			MenuItemID: strings.TrimSpace(in.MenuItemID),
			Name:       in.Name,
			Quantity:   in.Quantity,
			UnitPrice:  in.UnitPrice,
			Status:     model.ItemStatusPending,
			StationID:  in.StationID,
			Notes:      in.Notes,
			Position:   i,
		}
		if in.TotalPrice != nil {
			it.TotalPrice = *in.TotalPrice
		} else {
			it.TotalPrice = it.LineTotal()
		}
		items = append(items, it)
	}
	return items
}

func menuItemIDs(items []model.OrderItem) []string {
	seen := make(map[string]bool, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !seen[it.MenuItemID] {
			seen[it.MenuItemID] = true
			ids = append(ids, it.MenuItemID)
		}
	}
	return ids
}
