package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"dollardash/models"
)

const (
	KeyProducts = "dollardash-local-products"
	KeyOrders   = "dollardash-local-orders"
	KeyConfig   = "dollardash-local-config"
)

// Snapshot is the full local copy of the shared collections.
type Snapshot struct {
	Products []models.Product
	Orders   []models.Order
	Config   models.StoreConfig
}

// Snapshots reads and writes whole-collection snapshots.
type Snapshots struct {
	store *Store
}

func NewSnapshots(store *Store) *Snapshots {
	return &Snapshots{store: store}
}

// Load hydrates each collection independently. A missing or unreadable blob
// falls back to that collection's default without affecting the others.
func (s *Snapshots) Load() Snapshot {
	snap := Snapshot{
		Products: models.SeedProducts(),
		Orders:   []models.Order{},
		Config:   models.DefaultStoreConfig(),
	}

	var products []models.Product
	if s.read(KeyProducts, &products) && products != nil {
		snap.Products = products
	}
	var orders []models.Order
	if s.read(KeyOrders, &orders) && orders != nil {
		snap.Orders = orders
	}
	var cfg *models.StoreConfig
	if s.read(KeyConfig, &cfg) && cfg != nil {
		snap.Config = *cfg
	}
	return snap
}

func (s *Snapshots) read(key string, dst any) bool {
	raw, err := s.store.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false
	}
	if err != nil {
		log.Printf("[LocalStore] read %s: %v", key, err)
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.Printf("[LocalStore] corrupt snapshot %s, using default: %v", key, err)
		return false
	}
	return true
}

func (s *Snapshots) write(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return s.store.Set(key, string(data))
}

func (s *Snapshots) SaveProducts(products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return s.write(KeyProducts, products)
}

func (s *Snapshots) SaveOrders(orders []models.Order) error {
	if orders == nil {
		orders = []models.Order{}
	}
	return s.write(KeyOrders, orders)
}

func (s *Snapshots) SaveConfig(cfg models.StoreConfig) error {
	return s.write(KeyConfig, cfg)
}

// Save writes all three collections.
func (s *Snapshots) Save(snap Snapshot) error {
	if err := s.SaveProducts(snap.Products); err != nil {
		return err
	}
	if err := s.SaveOrders(snap.Orders); err != nil {
		return err
	}
	return s.SaveConfig(snap.Config)
}
