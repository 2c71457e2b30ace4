package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

// TakeawayRepo stores takeaway_orders rows and answers token scans.
type TakeawayRepo struct {
	ExtensionRepo[model.TakeawayExtension]
}

// NewTakeawayRepo returns a TakeawayRepo.
func NewTakeawayRepo() *TakeawayRepo {
	return &TakeawayRepo{ExtensionRepo[model.TakeawayExtension]{table: extensionTable{
		name:    "takeaway_orders",
		columns: "order_id, token, token_number, token_date, pickup_time, picked_up, customer_name, customer_phone",
		values:  ":order_id, :token, :token_number, :token_date, :pickup_time, :picked_up, :customer_name, :customer_phone",
		updates: "pickup_time = :pickup_time, picked_up = :picked_up, customer_name = :customer_name, customer_phone = :customer_phone",
		// DATE columns scan as time.Time with parseTime; the model keeps the key as text.
		selectColumns: "order_id, token, token_number, DATE_FORMAT(token_date, '%Y-%m-%d') AS token_date, pickup_time, picked_up, customer_name, customer_phone",
	}}}
}

// ListTokens returns every token issued for tokenDate (YYYY-MM-DD).
func (r *TakeawayRepo) ListTokens(ctx context.Context, q database.Querier, tokenDate string) ([]string, error) {
	tokens := []string{}
	err := sqlx.SelectContext(ctx, q, &tokens, `SELECT token FROM takeaway_orders WHERE token_date = ?`, tokenDate)
	if err != nil {
		return nil, translate(err, "list takeaway tokens")
	}
	return tokens, nil
}
