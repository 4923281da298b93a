package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dollardash/models"
	"dollardash/settings"
)

// Persistence is the active persistence path, normally the mode controller.
type Persistence interface {
	AddProduct(ctx context.Context, p models.Product) (models.Product, error)
	UpdateProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	UpdateConfig(ctx context.Context, cfg models.StoreConfig) error
	ClearOrders(ctx context.Context) error
}

// View is the read side of the shared state.
type View interface {
	Products() []models.Product
	Product(id string) (models.Product, bool)
	Orders() []models.Order
	Config() models.StoreConfig
}

type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(format string, args ...any) error {
	return validationError{message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err was caused by bad admin input.
func IsValidation(err error) bool {
	var ve validationError
	return errors.As(err, &ve)
}

// ProductInput is the admin form.
type ProductInput struct {
	Name        string          `json:"name"`
	Category    models.Category `json:"category"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

// Manager runs inventory, pricing and order-history operations.
type Manager struct {
	store Persistence
	view  View
}

func NewManager(store Persistence, view View) *Manager {
	return &Manager{store: store, view: view}
}

func (m *Manager) product(in ProductInput) (models.Product, error) {
	p := models.Product{
		Name:        strings.TrimSpace(in.Name),
		Category:    in.Category,
		Image:       strings.TrimSpace(in.Image),
		Description: strings.TrimSpace(in.Description),
		Price:       m.view.Config().ItemPrice,
	}
	if p.Name == "" || p.Image == "" {
		return models.Product{}, newValidationError("product name and image are required")
	}
	if p.Category == "" {
		p.Category = models.CategorySnacks
	}
	if !p.Category.Valid() {
		return models.Product{}, newValidationError("unknown category %q", p.Category)
	}
	return p, nil
}

// Products lists the catalog as stored, without price projection.
func (m *Manager) Products() []models.Product {
	return m.view.Products()
}

// CreateProduct adds a product priced at the current item price.
func (m *Manager) CreateProduct(ctx context.Context, in ProductInput) (models.Product, error) {
	p, err := m.product(in)
	if err != nil {
		return models.Product{}, err
	}
	return m.store.AddProduct(ctx, p)
}

// UpdateProduct replaces the product with id. The price is re-stamped with the
// current item price.
func (m *Manager) UpdateProduct(ctx context.Context, id string, in ProductInput) (models.Product, error) {
	p, err := m.product(in)
	if err != nil {
		return models.Product{}, err
	}
	p.ID = id
	if err := m.store.UpdateProduct(ctx, p); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (m *Manager) DeleteProduct(ctx context.Context, id string) error {
	return m.store.DeleteProduct(ctx, id)
}

func (m *Manager) Config() models.StoreConfig {
	return m.view.Config()
}

// UpdateConfig validates and stores cfg.
func (m *Manager) UpdateConfig(ctx context.Context, cfg models.StoreConfig) error {
	if err := settings.Validate(cfg); err != nil {
		return newValidationError("%v", err)
	}
	return m.store.UpdateConfig(ctx, cfg)
}

// Orders returns the order history, newest first.
func (m *Manager) Orders() []models.Order {
	return m.view.Orders()
}

func (m *Manager) ClearOrders(ctx context.Context) error {
	return m.store.ClearOrders(ctx)
}
