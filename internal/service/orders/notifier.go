package orders

import (
	"context"

	"github.com/iliyamo/restaurant-pos/internal/queue"
)

// Notifier delivers post-commit events. Delivery is at most once: the
// coordinator logs failures and never retries.
type Notifier interface {
	PublishKitchenOrder(ctx context.Context, ev queue.KitchenOrderEvent) error
	PublishDBChange(ctx context.Context, ev queue.DBChangeEvent) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) PublishKitchenOrder(context.Context, queue.KitchenOrderEvent) error { return nil }

func (NopNotifier) PublishDBChange(context.Context, queue.DBChangeEvent) error { return nil }
