package memory

import (
	"context"
	"sort"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
	"github.com/iliyamo/restaurant-pos/internal/repository"
)

// Orders returns the order repository.
func (s *Store) Orders() model.OrderRepository { return orderRepo{s} }

// Items returns the order item repository.
func (s *Store) Items() model.OrderItemRepository { return itemRepo{s} }

// DineIn returns the dine-in extension repository.
func (s *Store) DineIn() model.ExtensionRepository[model.DineInExtension] {
	return extRepo[model.DineInExtension]{s: s, pick: func(st *state) map[string]model.DineInExtension { return st.dineIn },
		key: func(e *model.DineInExtension) string { return e.OrderID }}
}

// Delivery returns the delivery extension repository.
func (s *Store) Delivery() model.ExtensionRepository[model.DeliveryExtension] {
	return extRepo[model.DeliveryExtension]{s: s, pick: func(st *state) map[string]model.DeliveryExtension { return st.delivery },
		key: func(e *model.DeliveryExtension) string { return e.OrderID }}
}

// Reservation returns the reservation extension repository.
func (s *Store) Reservation() model.ExtensionRepository[model.ReservationExtension] {
	return extRepo[model.ReservationExtension]{s: s, pick: func(st *state) map[string]model.ReservationExtension { return st.reservation },
		key: func(e *model.ReservationExtension) string { return e.OrderID }}
}

// Takeaway returns the takeaway extension repository.
func (s *Store) Takeaway() model.TakeawayRepository {
	return takeawayRepo{extRepo[model.TakeawayExtension]{
		s:    s,
		pick: func(st *state) map[string]model.TakeawayExtension { return st.takeaway },
		key:  func(e *model.TakeawayExtension) string { return e.OrderID },
		unique: func(st *state, e *model.TakeawayExtension) bool {
			for _, other := range st.takeaway {
				if other.OrderID != e.OrderID && other.TokenDate == e.TokenDate && other.TokenNumber == e.TokenNumber {
					return false
				}
			}
			return true
		},
	}}
}

// Tables returns the table repository.
func (s *Store) Tables() model.TableRepository { return tableRepo{s} }

// Audit returns the audit repository.
func (s *Store) Audit() model.AuditRepository { return auditRepo{s} }

// Customers returns the customer repository.
func (s *Store) Customers() model.CustomerRepository { return customerRepo{s} }

// Menu returns the menu repository.
func (s *Store) Menu() model.MenuRepository { return menuRepo{s} }

// Payments returns the payment repository.
func (s *Store) Payments() model.PaymentRepository { return paymentRepo{s} }

// Settings returns the settings repository.
func (s *Store) Settings() model.SettingsRepository { return settingsRepo{s} }

type orderRepo struct{ s *Store }

func stripOrder(o *model.Order) model.Order {
	c := *o
	c.Items = nil
	c.Extension = nil
	return c
}

func (r orderRepo) Insert(_ context.Context, _ database.Querier, o *model.Order) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.orders[o.ID]; ok {
			err = repository.ErrDuplicate
			return
		}
		st.orders[o.ID] = stripOrder(o)
	})
	return err
}

func (r orderRepo) Get(_ context.Context, _ database.Querier, id string) (*model.Order, error) {
	var (
		o  model.Order
		ok bool
	)
	r.s.view(func(st *state) { o, ok = st.orders[id] })
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &o, nil
}

func (r orderRepo) GetForUpdate(ctx context.Context, q database.Querier, id string) (*model.Order, error) {
	return r.Get(ctx, q, id)
}

func (r orderRepo) Update(_ context.Context, _ database.Querier, o *model.Order) error {
	var err error
	r.s.view(func(st *state) {
		if _, ok := st.orders[o.ID]; !ok {
			err = repository.ErrNotFound
			return
		}
		st.orders[o.ID] = stripOrder(o)
	})
	return err
}

func (r orderRepo) Delete(_ context.Context, _ database.Querier, id string) (bool, error) {
	var ok bool
	r.s.view(func(st *state) {
		_, ok = st.orders[id]
		delete(st.orders, id)
	})
	return ok, nil
}

type itemRepo struct{ s *Store }

func (r itemRepo) InsertBulk(_ context.Context, _ database.Querier, items []model.OrderItem) error {
	r.s.view(func(st *state) {
		for _, it := range items {
			st.items[it.OrderID] = append(st.items[it.OrderID], it)
		}
	})
	return nil
}

func (r itemRepo) ListByOrder(_ context.Context, _ database.Querier, orderID string) ([]model.OrderItem, error) {
	out := []model.OrderItem{}
	r.s.view(func(st *state) { out = append(out, st.items[orderID]...) })
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (r itemRepo) DeleteByOrder(_ context.Context, _ database.Querier, orderID string) error {
	r.s.view(func(st *state) { delete(st.items, orderID) })
	return nil
}

func (r itemRepo) UpdateKitchenState(_ context.Context, _ database.Querier, item *model.OrderItem) error {
	r.s.view(func(st *state) {
		lines := st.items[item.OrderID]
		for i := range lines {
			if lines[i].ID == item.ID {
				lines[i].Status = item.Status
				lines[i].StationID = item.StationID
				lines[i].FiredAt = item.FiredAt
			}
		}
	})
	return nil
}

type extRepo[T any] struct {
	s      *Store
	pick   func(st *state) map[string]T
	key    func(e *T) string
	unique func(st *state, e *T) bool
}

func (r extRepo[T]) Get(_ context.Context, _ database.Querier, orderID string) (*T, error) {
	var (
		e  T
		ok bool
	)
	r.s.view(func(st *state) { e, ok = r.pick(st)[orderID] })
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r extRepo[T]) Insert(_ context.Context, _ database.Querier, e *T) error {
	var err error
	r.s.view(func(st *state) {
		m := r.pick(st)
		if _, ok := m[r.key(e)]; ok {
			err = repository.ErrDuplicate
			return
		}
		if r.unique != nil && !r.unique(st, e) {
			err = repository.ErrDuplicate
			return
		}
		m[r.key(e)] = *e
	})
	return err
}

func (r extRepo[T]) Update(_ context.Context, _ database.Querier, e *T) error {
	r.s.view(func(st *state) {
		m := r.pick(st)
		if _, ok := m[r.key(e)]; ok {
			m[r.key(e)] = *e
		}
	})
	return nil
}

func (r extRepo[T]) Delete(_ context.Context, _ database.Querier, orderID string) error {
	r.s.view(func(st *state) { delete(r.pick(st), orderID) })
	return nil
}

type takeawayRepo struct {
	extRepo[model.TakeawayExtension]
}

func (r takeawayRepo) ListTokens(_ context.Context, _ database.Querier, tokenDate string) ([]string, error) {
	out := []string{}
	r.s.view(func(st *state) {
		for _, e := range st.takeaway {
			if e.TokenDate == tokenDate {
				out = append(out, e.Token)
			}
		}
	})
	return out, nil
}

type tableRepo struct{ s *Store }

func (r tableRepo) Get(_ context.Context, _ database.Querier, id string) (*model.Table, error) {
	t, ok := r.s.Table(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r tableRepo) UpdateState(_ context.Context, _ database.Querier, id string, status model.TableStatus, activeOrderID *string) error {
	var err error
	r.s.view(func(st *state) {
		t, ok := st.tables[id]
		if !ok {
			err = repository.ErrNotFound
			return
		}
		t.Status = status
		t.ActiveOrderID = activeOrderID
		st.tables[id] = t
	})
	return err
}

type auditRepo struct{ s *Store }

func (r auditRepo) Insert(_ context.Context, _ database.Querier, e *model.AuditEntry) error {
	r.s.view(func(st *state) { st.audit = append(st.audit, *e) })
	return nil
}

func (r auditRepo) ListByEntity(_ context.Context, _ database.Querier, entityType, entityID string) ([]model.AuditEntry, error) {
	out := []model.AuditEntry{}
	r.s.view(func(st *state) {
		for _, e := range st.audit {
			if e.EntityType == entityType && e.EntityID == entityID {
				out = append(out, e)
			}
		}
	})
	return out, nil
}

type customerRepo struct{ s *Store }

func (r customerRepo) FindByPhone(_ context.Context, _ database.Querier, restaurantID, phone string) (*model.Customer, error) {
	var found *model.Customer
	r.s.view(func(st *state) {
		for _, c := range st.customers {
			if c.RestaurantID == restaurantID && c.Phone == phone {
				c := c
				found = &c
				return
			}
		}
	})
	return found, nil
}

func (r customerRepo) Insert(_ context.Context, _ database.Querier, c *model.Customer) error {
	var err error
	r.s.view(func(st *state) {
		for _, other := range st.customers {
			if other.RestaurantID == c.RestaurantID && other.Phone == c.Phone {
				err = repository.ErrDuplicate
				return
			}
		}
		st.customers[c.ID] = *c
	})
	return err
}

func (r customerRepo) ListAddresses(_ context.Context, _ database.Querier, customerID string) ([]model.CustomerAddress, error) {
	out := []model.CustomerAddress{}
	r.s.view(func(st *state) { out = append(out, st.addresses[customerID]...) })
	return out, nil
}

func (r customerRepo) InsertAddress(_ context.Context, _ database.Querier, a *model.CustomerAddress) error {
	r.s.view(func(st *state) { st.addresses[a.CustomerID] = append(st.addresses[a.CustomerID], *a) })
	return nil
}

type menuRepo struct{ s *Store }

func (r menuRepo) PrepInfo(_ context.Context, _ database.Querier, ids []string) (map[string]model.MenuItemPrep, error) {
	out := make(map[string]model.MenuItemPrep, len(ids))
	r.s.view(func(st *state) {
		for _, id := range ids {
			if p, ok := st.menu[id]; ok {
				out[id] = p
			}
		}
	})
	return out, nil
}

type paymentRepo struct{ s *Store }

func (r paymentRepo) Insert(_ context.Context, _ database.Querier, p *model.PaymentTransaction) error {
	r.s.view(func(st *state) { st.payments[p.OrderID] = append(st.payments[p.OrderID], *p) })
	return nil
}

func (r paymentRepo) ListByOrder(_ context.Context, _ database.Querier, orderID string) ([]model.PaymentTransaction, error) {
	out := []model.PaymentTransaction{}
	r.s.view(func(st *state) { out = append(out, st.payments[orderID]...) })
	return out, nil
}

func (r paymentRepo) DeleteByOrder(_ context.Context, _ database.Querier, orderID string) error {
	r.s.view(func(st *state) { delete(st.payments, orderID) })
	return nil
}

type settingsRepo struct{ s *Store }

func (r settingsRepo) Get(_ context.Context, _ database.Querier, restaurantID string) (*model.RestaurantSettings, error) {
	var (
		rs model.RestaurantSettings
		ok bool
	)
	r.s.view(func(st *state) { rs, ok = st.settings[restaurantID] })
	if !ok {
		return nil, nil
	}
	return &rs, nil
}
