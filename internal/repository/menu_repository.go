package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// MenuRepo answers kitchen routing questions about menu items. Menu
// management itself is out of this service's hands.
type MenuRepo struct{}

// NewMenuRepo returns a MenuRepo.
func NewMenuRepo() *MenuRepo { return &MenuRepo{} }

// PrepInfo returns requires_prep and station_id for the given menu items.
func (r *MenuRepo) PrepInfo(ctx context.Context, q database.Querier, menuItemIDs []string) (map[string]model.MenuItemPrep, error) {
	out := make(map[string]model.MenuItemPrep, len(menuItemIDs))
	if len(menuItemIDs) == 0 {
		return out, nil
	}
	query, args, err := sqlx.In(`SELECT id, requires_prep, station_id FROM menu_items WHERE id IN (?)`, menuItemIDs)
	if err != nil {
		return nil, translate(err, "build prep query")
	}
	var rows []model.MenuItemPrep
	if err := sqlx.SelectContext(ctx, q, &rows, q.Rebind(query), args...); err != nil {
		return nil, translate(err, "load prep info")
	}
	for _, row := range rows {
		out[row.MenuItemID] = row
	}
	return out, nil
}
