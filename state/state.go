package state

import (
	"slices"
	"sync"

	"dollardash/models"
)

// Kind names the collection that changed.
type Kind string

const (
	KindProducts Kind = "products"
	KindOrders   Kind = "orders"
	KindConfig   Kind = "config"
	KindMode     Kind = "mode"
)

// Listener is called after every change, outside the store lock.
type Listener func(Kind)

// Store owns the shared products, orders and configuration. Getters return
// copies so callers can never mutate shared state.
type Store struct {
	mu        sync.RWMutex
	products  []models.Product
	orders    []models.Order
	config    models.StoreConfig
	listeners []Listener
}

func New() *Store {
	return &Store{
		products: []models.Product{},
		orders:   []models.Order{},
		config:   models.DefaultStoreConfig(),
	}
}

func (s *Store) OnChange(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Store) notify(k Kind) {
	s.mu.RLock()
	ls := slices.Clone(s.listeners)
	s.mu.RUnlock()
	for _, l := range ls {
		l(k)
	}
}

// Touch fires listeners without changing data.
func (s *Store) Touch(k Kind) {
	s.notify(k)
}

func (s *Store) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.products)
}

func (s *Store) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		o.Items = slices.Clone(o.Items)
		out[i] = o
	}
	return out
}

func (s *Store) Config() models.StoreConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Product looks up a catalog entry by id.
func (s *Store) Product(id string) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Order looks up an order by id.
func (s *Store) Order(id string) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == id {
			o.Items = slices.Clone(o.Items)
			return o, true
		}
	}
	return models.Order{}, false
}

func (s *Store) SetProducts(products []models.Product) {
	s.mu.Lock()
	s.products = slices.Clone(products)
	if s.products == nil {
		s.products = []models.Product{}
	}
	s.mu.Unlock()
	s.notify(KindProducts)
}

func (s *Store) SetOrders(orders []models.Order) {
	s.mu.Lock()
	s.orders = slices.Clone(orders)
	if s.orders == nil {
		s.orders = []models.Order{}
	}
	s.mu.Unlock()
	s.notify(KindOrders)
}

func (s *Store) SetConfig(cfg models.StoreConfig) {
	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()
	s.notify(KindConfig)
}

// Reset drops everything back to the empty state.
func (s *Store) Reset() {
	s.mu.Lock()
	s.products = []models.Product{}
	s.orders = []models.Order{}
	s.config = models.DefaultStoreConfig()
	s.mu.Unlock()
	s.notify(KindProducts)
	s.notify(KindOrders)
	s.notify(KindConfig)
}

// UpdateProducts applies fn to the catalog under the lock and returns the
// result, so read-modify-write sequences are not interleaved.
func (s *Store) UpdateProducts(fn func([]models.Product) []models.Product) []models.Product {
	s.mu.Lock()
	s.products = fn(slices.Clone(s.products))
	if s.products == nil {
		s.products = []models.Product{}
	}
	out := slices.Clone(s.products)
	s.mu.Unlock()
	s.notify(KindProducts)
	return out
}

// UpdateOrders is the orders counterpart of UpdateProducts.
func (s *Store) UpdateOrders(fn func([]models.Order) []models.Order) []models.Order {
	s.mu.Lock()
	s.orders = fn(slices.Clone(s.orders))
	if s.orders == nil {
		s.orders = []models.Order{}
	}
	out := slices.Clone(s.orders)
	s.mu.Unlock()
	s.notify(KindOrders)
	return out
}
