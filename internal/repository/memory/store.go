// Package memory is an in-process implementation of every repository
// interface. It backs STORE_DRIVER=memory and the service tests.
//
// Transactions are serialized: Begin takes a store-wide lock that is held
// until Commit or Rollback, and Rollback restores the snapshot taken at
// Begin. Statements issued outside a transaction see uncommitted writes of
// a running one.
package memory

import (
	"context"
	"database/sql"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/restaurant-pos/internal/database"
	"github.com/iliyamo/restaurant-pos/internal/model"
)

type state struct {
	orders      map[string]model.Order
	items       map[string][]model.OrderItem
	dineIn      map[string]model.DineInExtension
	takeaway    map[string]model.TakeawayExtension
	delivery    map[string]model.DeliveryExtension
	reservation map[string]model.ReservationExtension
	tables      map[string]model.Table
	audit       []model.AuditEntry
	customers   map[string]model.Customer
	addresses   map[string][]model.CustomerAddress
	menu        map[string]model.MenuItemPrep
	payments    map[string][]model.PaymentTransaction
	settings    map[string]model.RestaurantSettings
}

func newState() *state {
	return &state{
		orders:      map[string]model.Order{},
		items:       map[string][]model.OrderItem{},
		dineIn:      map[string]model.DineInExtension{},
		takeaway:    map[string]model.TakeawayExtension{},
		delivery:    map[string]model.DeliveryExtension{},
		reservation: map[string]model.ReservationExtension{},
		tables:      map[string]model.Table{},
		customers:   map[string]model.Customer{},
		addresses:   map[string][]model.CustomerAddress{},
		menu:        map[string]model.MenuItemPrep{},
		payments:    map[string][]model.PaymentTransaction{},
		settings:    map[string]model.RestaurantSettings{},
	}
}

func (s *state) clone() *state {
	return &state{
		orders:      cloneMap(s.orders),
		items:       cloneSliceMap(s.items),
		dineIn:      cloneMap(s.dineIn),
		takeaway:    cloneMap(s.takeaway),
		delivery:    cloneMap(s.delivery),
		reservation: cloneMap(s.reservation),
		tables:      cloneMap(s.tables),
		audit:       append([]model.AuditEntry(nil), s.audit...),
		customers:   cloneMap(s.customers),
		addresses:   cloneSliceMap(s.addresses),
		menu:        cloneMap(s.menu),
		payments:    cloneSliceMap(s.payments),
		settings:    cloneMap(s.settings),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSliceMap[K comparable, V any](m map[K][]V) map[K][]V {
	out := make(map[K][]V, len(m))
	for k, v := range m {
		out[k] = append([]V(nil), v...)
	}
	return out
}

// Store holds all data in memory.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	data *state
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: newState()}
}

// view runs fn with the data lock held.
func (s *Store) view(fn func(st *state)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Begin implements database.TxBeginner.
func (s *Store) Begin(ctx context.Context) (database.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.txMu.Lock()
	s.mu.Lock()
	snap := s.data.clone()
	s.mu.Unlock()
	return &tx{store: s, snapshot: snap}, nil
}

// DB returns the handle used for statements outside a transaction.
func (s *Store) DB() database.Querier { return handle{} }

// handle satisfies database.Querier. Memory repositories never issue SQL,
// so the embedded interface is left nil.
type handle struct {
	sqlx.ExtContext
}

type tx struct {
	handle
	store    *Store
	snapshot *state
	done     bool
}

func (t *tx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.store.txMu.Unlock()
	return nil
}

func (t *tx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}
	t.done = true
	t.store.mu.Lock()
	t.store.data = t.snapshot
	t.store.mu.Unlock()
	t.store.txMu.Unlock()
	return nil
}

// PutTable inserts or replaces a table.
func (s *Store) PutTable(t model.Table) {
	s.view(func(st *state) { st.tables[t.ID] = t })
}

// PutMenuItem inserts or replaces the kitchen routing of a menu item.
func (s *Store) PutMenuItem(p model.MenuItemPrep) {
	s.view(func(st *state) { st.menu[p.MenuItemID] = p })
}

// PutSettings inserts or replaces a restaurant's pricing settings.
func (s *Store) PutSettings(rs model.RestaurantSettings) {
	s.view(func(st *state) { st.settings[rs.RestaurantID] = rs })
}

// Table returns a copy of a table and whether it exists.
func (s *Store) Table(id string) (model.Table, bool) {
	var (
		t  model.Table
		ok bool
	)
	s.view(func(st *state) { t, ok = st.tables[id] })
	return t, ok
}

// Counts reports how many rows of each kind reference orderID.
func (s *Store) Counts(orderID string) (items, extensions, payments int) {
	s.view(func(st *state) {
		items = len(st.items[orderID])
		for _, ok := range []bool{
			has(st.dineIn, orderID), has(st.takeaway, orderID),
			has(st.delivery, orderID), has(st.reservation, orderID),
		} {
			if ok {
				extensions++
			}
		}
		payments = len(st.payments[orderID])
	})
	return items, extensions, payments
}

func has[V any](m map[string]V, k string) bool {
	_, ok := m[k]
	return ok
}

// OrderIDs lists the ids of every stored order.
func (s *Store) OrderIDs() []string {
	var ids []string
	s.view(func(st *state) {
		for id := range st.orders {
			ids = append(ids, id)
		}
	})
	return ids
}
