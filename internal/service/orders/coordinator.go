// Package orders implements the order lifecycle: creation, updates, firing
// to the kitchen, settlement and deletion. Each operation runs in a single
// database transaction; notifications go out only after it commits.
package orders

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/queue"
	"github.com/iliyamo/restaurant-pos/internal/repository"
	"github.com/iliyamo/restaurant-pos/internal/service/audit"
	"github.com/iliyamo/restaurant-pos/internal/service/pricing"
	"github.com/iliyamo/restaurant-pos/internal/service/tables"
	"github.com/iliyamo/restaurant-pos/internal/service/tokens"
)

const notifyTimeout = 5 * time.Second

// Repositories groups the persistence dependencies of the coordinator.
type Repositories struct {
	Orders      model.OrderRepository
	Items       model.OrderItemRepository
	DineIn      model.ExtensionRepository[model.DineInExtension]
	Takeaway    model.TakeawayRepository
	Delivery    model.ExtensionRepository[model.DeliveryExtension]
	Reservation model.ExtensionRepository[model.ReservationExtension]
	Tables      model.TableRepository
	Audit       model.AuditRepository
	Customers   model.CustomerRepository
	Menu        model.MenuRepository
	Payments    model.PaymentRepository
}

// Option customises a Coordinator.
type Option func(*Coordinator)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithTokenRetries sets how many times order creation is attempted when a
// concurrent transaction takes the same takeaway token.
func WithTokenRetries(n int) Option {
	return func(c *Coordinator) {
		if n > 0 {
			c.tokenRetries = n
		}
	}
}

// Coordinator orchestrates the order lifecycle.
type Coordinator struct {
	db       database.Querier
	txs      database.TxBeginner
	orders   model.OrderRepository
	items    model.OrderItemRepository
	menu     model.MenuRepository
	payments model.PaymentRepository
	factory  *Factory
	audit    *audit.Recorder
	pricing  *pricing.Calculator
	notifier Notifier
	log      logrus.FieldLogger

	now          func() time.Time
	tokenRetries int
}

// New wires a Coordinator and its four type strategies. db serves reads
// outside transactions; txs opens the transaction of each write.
func New(db database.Querier, txs database.TxBeginner, repos Repositories, calc *pricing.Calculator, notifier Notifier, log logrus.FieldLogger, opts ...Option) *Coordinator {
	c := &Coordinator{
		db:           db,
		txs:          txs,
		orders:       repos.Orders,
		items:        repos.Items,
		menu:         repos.Menu,
		payments:     repos.Payments,
		pricing:      calc,
		notifier:     notifier,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
		tokenRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NopNotifier{}
	}

	clock := func() time.Time { return c.now() }
	c.audit = audit.NewRecorder(repos.Audit).WithClock(clock)
	tm := tables.NewManager(repos.Tables, log)
	c.factory = NewFactory(
		NewDineInStrategy(repos.DineIn, tm, c.audit, clock),
		NewTakeawayStrategy(repos.Takeaway, tokens.NewSequencer(repos.Takeaway), clock),
		NewDeliveryStrategy(repos.Delivery, repos.Customers, repos.Orders, clock),
		NewReservationStrategy(repos.Reservation),
	)
	return c
}

// Factory exposes the strategy registry.
func (c *Coordinator) Factory() *Factory { return c.factory }

// CreateOrder validates req leniently and persists a DRAFT order with its
// items, totals and extension.
func (c *Coordinator) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.Order, error) {
	strategy, err := c.factory.For(req.Type)
	if err != nil {
		return nil, err
	}
	var problems []string
	if strings.TrimSpace(req.RestaurantID) == "" {
		problems = append(problems, "restaurant_id is required")
	}
	problems = append(problems, validateItems(req.Items)...)
	problems = append(problems, validateDiscount(req.Discount)...)
	fields := req.Fields()
	if res := strategy.Validate(fields, model.ValidateDraft); !res.Valid {
		problems = append(problems, res.Errors...)
	}
	if len(problems) > 0 {
		return nil, invalid(problems...)
	}

	var created *model.Order
	for attempt := 1; ; attempt++ {
		created, err = c.createOnce(ctx, req, strategy, fields)
		if err == nil || !errors.Is(err, tokens.ErrTokenConflict) || attempt >= c.tokenRetries {
			break
		}
		c.log.WithField("attempt", attempt).Warn("takeaway token taken concurrently, retrying order creation")
	}
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"order_id": created.ID, "type": created.Type}).Info("order created")
	c.publishChange(ctx, queue.ChangeInsert, created)
	return created, nil
}

func (c *Coordinator) createOnce(ctx context.Context, req model.CreateOrderRequest, strategy Strategy, fields model.OrderFields) (*model.Order, error) {
	now := c.now()
	order := &model.Order{
		ID:           uuid.NewString(),
		RestaurantID: strings.TrimSpace(req.RestaurantID),
		OrderNumber:  strings.TrimSpace(req.OrderNumber),
		Type:         req.Type,
		Status:       model.OrderStatusDraft,
		Notes:        req.Notes,
		CreatedBy:    req.CreatedBy,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if order.OrderNumber == "" {
		order.OrderNumber = NewOrderNumber(now)
	}
	discount := decimal.Zero
	if req.Discount != nil {
		discount = *req.Discount
	}
	lines := buildItems(order.ID, req.Items)

	var created *model.Order
	err := c.inTx(ctx, "create order", func(tx database.Tx) error {
		b, err := c.pricing.Calculate(ctx, tx, order.RestaurantID, order.Type, lines, discount)
		if err != nil {
			return err
		}
		b.Apply(order)
		if err := c.orders.Insert(ctx, tx, order); err != nil {
			return err
		}
		if err := c.items.InsertBulk(ctx, tx, lines); err != nil {
			return err
		}
		if err := strategy.CreateExtension(ctx, tx, order, fields); err != nil {
			return err
		}
		created, err = c.load(ctx, tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// NewOrderNumber builds a human-readable order number from the creation
// time and a short random suffix.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:4])
	return "ORD-" + now.UTC().Format("20060102150405") + "-" + suffix
}

// UpdateOrder applies a partial update. It returns (nil, nil) when the
// order does not exist. A DRAFT order leaves DRAFT only by being fired,
// cancelled or voided.
func (c *Coordinator) UpdateOrder(ctx context.Context, id string, req model.UpdateOrderRequest) (*model.Order, error) {
	var problems []string
	if req.Items != nil {
		problems = append(problems, validateItems(req.Items)...)
	}
	problems = append(problems, validateDiscount(req.Discount)...)
	if req.Status != nil && !req.Status.Valid() {
		problems = append(problems, "unknown status "+string(*req.Status))
	}
	if len(problems) > 0 {
		return nil, invalid(problems...)
	}

	var updated *model.Order
	err := c.inTx(ctx, "update order", func(tx database.Tx) error {
		current, err := c.orders.GetForUpdate(ctx, tx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		previous := current.Status
		target := previous
		if req.Status != nil {
			target = *req.Status
		}
		if previous.IsTerminal() {
			return &TransitionError{From: previous, To: target, Reason: "order is closed"}
		}
		if target == model.OrderStatusDraft && previous != model.OrderStatusDraft {
			return &TransitionError{From: previous, To: target, Reason: "a fired order cannot return to draft"}
		}
		if previous == model.OrderStatusDraft && target != previous &&
			target != model.OrderStatusCancelled && target != model.OrderStatusVoided {
			return &TransitionError{From: previous, To: target, Reason: "fire the order to confirm it"}
		}

		oldStrategy, err := c.factory.For(current.Type)
		if err != nil {
			return err
		}
		newStrategy := oldStrategy
		typeChanged := req.Type != nil && *req.Type != current.Type
		if typeChanged {
			if newStrategy, err = c.factory.For(*req.Type); err != nil {
				return err
			}
		}

		var lines []model.OrderItem
		if req.Items != nil {
			lines = buildItems(id, req.Items)
		} else if lines, err = c.items.ListByOrder(ctx, tx, id); err != nil {
			return err
		}
		fields := req.Fields(len(lines))
		if res := newStrategy.Validate(fields, model.ValidateDraft); !res.Valid {
			return invalid(res.Errors...)
		}

		if a, ok := oldStrategy.(updateAuditor); ok && !typeChanged {
			if err := a.AuditUpdate(ctx, tx, current, fields); err != nil {
				return err
			}
		}
		if typeChanged {
			if err := oldStrategy.RemoveExtension(ctx, tx, current); err != nil {
				return err
			}
		}

		current.Type = newStrategy.Type()
		current.Status = target
		current.UpdatedAt = c.now()
		if req.Notes != nil {
			current.Notes = req.Notes
		}
		if req.Discount != nil {
			current.Discount = *req.Discount
		}
		if req.Items != nil {
			if err := c.items.DeleteByOrder(ctx, tx, id); err != nil {
				return err
			}
			if err := c.items.InsertBulk(ctx, tx, lines); err != nil {
				return err
			}
		}
		b, err := c.pricing.Calculate(ctx, tx, current.RestaurantID, current.Type, lines, current.Discount)
		if err != nil {
			return err
		}
		b.Apply(current)
		if err := c.orders.Update(ctx, tx, current); err != nil {
			return err
		}

		if typeChanged {
			err = newStrategy.CreateExtension(ctx, tx, current, fields)
		} else {
			err = newStrategy.UpdateExtension(ctx, tx, current, fields)
		}
		if err != nil {
			return err
		}

		if target.IsTerminal() {
			if err := newStrategy.ReleaseResources(ctx, tx, current); err != nil {
				return err
			}
			if err := c.recordClosure(ctx, tx, current, previous, req); err != nil {
				return err
			}
		}

		updated, err = c.load(ctx, tx, id)
		return err
	})
	if errors.Is(err, ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"order_id": id, "status": updated.Status}).Info("order updated")
	c.publishChange(ctx, queue.ChangeUpdate, updated)
	return updated, nil
}

// recordClosure audits cancellations and voids.
func (c *Coordinator) recordClosure(ctx context.Context, q database.Querier, o *model.Order, previous model.OrderStatus, req model.UpdateOrderRequest) error {
	var action string
	switch o.Status {
	case model.OrderStatusCancelled:
		action = model.AuditOrderCancel
	case model.OrderStatusVoided:
		action = model.AuditOrderVoid
	default:
		return nil
	}
	details := map[string]any{"previous_status": previous, "total": o.Total.String()}
	if req.Reason != nil {
		details["reason"] = *req.Reason
	}
	_, err := c.audit.Record(ctx, q, audit.Entry{
		Action:     action,
		EntityType: model.AuditEntityOrder,
		EntityID:   o.ID,
		StaffID:    req.AuthorizedBy,
		Details:    details,
	})
	return err
}

// FireOrderToKitchen validates the order for service, routes its pending
// items and confirms it. The kitchen is notified after commit.
func (c *Coordinator) FireOrderToKitchen(ctx context.Context, id string) (*model.Order, error) {
	order, err := c.load(ctx, c.db, id)
	if err != nil {
		return nil, &TransactionError{Op: "load order", Err: err}
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if order.Status.IsTerminal() {
		return nil, &TransitionError{From: order.Status, To: model.OrderStatusConfirmed, Reason: "order is closed"}
	}
	strategy, err := c.factory.For(order.Type)
	if err != nil {
		return nil, err
	}
	if res := strategy.Validate(order.Fields(), model.ValidateFire); !res.Valid {
		return nil, invalid(res.Errors...)
	}

	var (
		fired      *model.Order
		firedItems []model.OrderItem
		firedAt    time.Time
	)
	err = c.inTx(ctx, "fire order", func(tx database.Tx) error {
		current, err := c.orders.GetForUpdate(ctx, tx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return &TransitionError{From: current.Status, To: model.OrderStatusConfirmed, Reason: "order is closed"}
		}
		lines, err := c.items.ListByOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return invalid("order must contain at least one item")
		}
		prep, err := c.menu.PrepInfo(ctx, tx, menuItemIDs(lines))
		if err != nil {
			return err
		}

		firedAt = c.now()
		for i := range lines {
			it := &lines[i]
			if it.Status != model.ItemStatusPending {
				continue
			}
			info, known := prep[it.MenuItemID]
			if !known || info.RequiresPrep {
				it.Status = model.ItemStatusFired
			} else {
				it.Status = model.ItemStatusReady
			}
			if it.StationID == nil && known && info.StationID != nil {
				station := *info.StationID
				it.StationID = &station
			}
			at := firedAt
			it.FiredAt = &at
			if err := c.items.UpdateKitchenState(ctx, tx, it); err != nil {
				return err
			}
			if it.Status == model.ItemStatusFired {
				firedItems = append(firedItems, *it)
			}
		}

		if current.Status == model.OrderStatusDraft {
			current.Status = model.OrderStatusConfirmed
		}
		current.FiredAt = &firedAt
		current.UpdatedAt = firedAt
		if err := c.orders.Update(ctx, tx, current); err != nil {
			return err
		}
		fired, err = c.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	c.log.WithFields(logrus.Fields{"order_id": id, "fired_items": len(firedItems)}).Info("order fired to kitchen")
	c.notifyKitchen(ctx, fired, firedItems, firedAt)
	c.publishChange(ctx, queue.ChangeUpdate, fired)
	return fired, nil
}

// SettleOrder records a payment and closes the order as PAID. Orders with
// kitchen items still in progress need req.Force, which is audited.
func (c *Coordinator) SettleOrder(ctx context.Context, id string, req model.SettleRequest) (*model.Order, error) {
	var problems []string
	if strings.TrimSpace(req.Method) == "" {
		problems = append(problems, "method is required")
	}
	if !req.Amount.IsPositive() {
		problems = append(problems, "amount must be positive")
	}
	if len(problems) > 0 {
		return nil, invalid(problems...)
	}

	var settled *model.Order
	err := c.inTx(ctx, "settle order", func(tx database.Tx) error {
		current, err := c.orders.GetForUpdate(ctx, tx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return &TransitionError{From: current.Status, To: model.OrderStatusPaid, Reason: "order is closed"}
		}
		if current.Status == model.OrderStatusDraft {
			return &TransitionError{From: current.Status, To: model.OrderStatusPaid, Reason: "order has not been fired"}
		}
		if req.Amount.LessThan(current.Total) {
			return invalid("amount " + req.Amount.String() + " does not cover total " + current.Total.String())
		}
		lines, err := c.items.ListByOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		unfinished := 0
		for _, it := range lines {
			if it.Status == model.ItemStatusPending || it.Status == model.ItemStatusFired {
				unfinished++
			}
		}
		if unfinished > 0 {
			if !req.Force {
				return &TransitionError{From: current.Status, To: model.OrderStatusPaid, Reason: "kitchen items are still in progress"}
			}
			_, err := c.audit.Record(ctx, tx, audit.Entry{
				Action:     model.AuditForceSettle,
				EntityType: model.AuditEntityOrder,
				EntityID:   id,
				StaffID:    req.StaffID,
				Details: map[string]any{
					"unfinished_items": unfinished,
					"amount":           req.Amount.String(),
					"method":           req.Method,
				},
			})
			if err != nil {
				return err
			}
		}

		now := c.now()
		err = c.payments.Insert(ctx, tx, &model.PaymentTransaction{
			ID:        uuid.NewString(),
			OrderID:   id,
			Method:    strings.ToUpper(strings.TrimSpace(req.Method)),
			Amount:    req.Amount,
			Reference: req.Reference,
			StaffID:   req.StaffID,
			CreatedAt: now,
		})
		if err != nil {
			return err
		}
		current.Status = model.OrderStatusPaid
		current.UpdatedAt = now
		if err := c.orders.Update(ctx, tx, current); err != nil {
			return err
		}
		strategy, err := c.factory.For(current.Type)
		if err != nil {
			return err
		}
		if err := strategy.ReleaseResources(ctx, tx, current); err != nil {
			return err
		}
		settled, err = c.load(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.WithFields(logrus.Fields{"order_id": id, "amount": req.Amount.String()}).Info("order settled")
	c.publishChange(ctx, queue.ChangeUpdate, settled)
	return settled, nil
}

// DeleteOrder hard-deletes a DRAFT order with its items, extension and
// payments, releasing any table it holds. It reports false when the order
// does not exist.
func (c *Coordinator) DeleteOrder(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := c.inTx(ctx, "delete order", func(tx database.Tx) error {
		current, err := c.orders.GetForUpdate(ctx, tx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if current.Status != model.OrderStatusDraft {
			return &TransitionError{From: current.Status, Reason: "only draft orders can be deleted"}
		}
		strategy, err := c.factory.For(current.Type)
		if err != nil {
			return err
		}
		if err := strategy.RemoveExtension(ctx, tx, current); err != nil {
			return err
		}
		if err := c.items.DeleteByOrder(ctx, tx, id); err != nil {
			return err
		}
		if err := c.payments.DeleteByOrder(ctx, tx, id); err != nil {
			return err
		}
		deleted, err = c.orders.Delete(ctx, tx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	if deleted {
		c.log.WithField("order_id", id).Info("order deleted")
		c.publishChange(ctx, queue.ChangeDelete, map[string]string{"id": id})
	}
	return deleted, nil
}

// GetOrderDetails returns the order with items and extension, or nil.
func (c *Coordinator) GetOrderDetails(ctx context.Context, id string) (*model.Order, error) {
	o, err := c.load(ctx, c.db, id)
	if err != nil {
		return nil, &TransactionError{Op: "load order", Err: err}
	}
	return o, nil
}

// AuditTrail lists the audit entries recorded for an order.
func (c *Coordinator) AuditTrail(ctx context.Context, id string) ([]model.AuditEntry, error) {
	entries, err := c.audit.List(ctx, c.db, model.AuditEntityOrder, id)
	if err != nil {
		return nil, &TransactionError{Op: "list audit entries", Err: err}
	}
	return entries, nil
}

func (c *Coordinator) load(ctx context.Context, q database.Querier, id string) (*model.Order, error) {
	o, err := c.orders.Get(ctx, q, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if o.Items, err = c.items.ListByOrder(ctx, q, id); err != nil {
		return nil, err
	}
	strategy, err := c.factory.For(o.Type)
	if err != nil {
		return nil, err
	}
	if o.Extension, err = strategy.LoadExtension(ctx, q, id); err != nil {
		return nil, err
	}
	return o, nil
}

// inTx runs fn in a transaction, rolling back on any error. Storage
// failures come back as *TransactionError.
func (c *Coordinator) inTx(ctx context.Context, op string, fn func(tx database.Tx) error) error {
	tx, err := c.txs.Begin(ctx)
	if err != nil {
		return &TransactionError{Op: op, Err: err}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		if isDomainError(err) {
			return err
		}
		return &TransactionError{Op: op, Err: err}
	}
	if err := tx.Commit(); err != nil {
		return &TransactionError{Op: op, Err: err}
	}
	committed = true
	return nil
}

func (c *Coordinator) notifyKitchen(ctx context.Context, o *model.Order, items []model.OrderItem, firedAt time.Time) {
	if items == nil {
		items = []model.OrderItem{}
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	err := c.notifier.PublishKitchenOrder(ctx, queue.KitchenOrderEvent{
		Type:         queue.EventNewKitchenOrder,
		OrderID:      o.ID,
		RestaurantID: o.RestaurantID,
		OrderNumber:  o.OrderNumber,
		OrderType:    o.Type,
		Items:        items,
		FiredAt:      firedAt,
	})
	if err != nil {
		c.log.WithError(err).WithField("order_id", o.ID).Error("kitchen notification lost")
	}
}

func (c *Coordinator) publishChange(ctx context.Context, eventType string, data any) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	err := c.notifier.PublishDBChange(ctx, queue.DBChangeEvent{Table: "orders", EventType: eventType, Data: data})
	if err != nil {
		c.log.WithError(err).WithField("event_type", eventType).Warn("change notification lost")
	}
}
