package bundle

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"dollardash/cart"
	"dollardash/models"

	"github.com/google/uuid"
)

type DuplicatePolicy int

const (
	// AllowDuplicates lets the same product fill several slots.
	AllowDuplicates DuplicatePolicy = iota
	// RejectDuplicates keeps each product at most once.
	RejectDuplicates
)

type CapacityPolicy int

const (
	// PreserveItems keeps every selection when capacity shrinks. The bundle
	// cannot be completed until it is trimmed back to capacity.
	PreserveItems CapacityPolicy = iota
	// TruncateExcess drops selections past the new capacity.
	TruncateExcess
)

type Options struct {
	Duplicates DuplicatePolicy
	Capacity   CapacityPolicy
}

// ParseOptions maps the env-style names "allow"/"reject" and
// "preserve"/"truncate". Unknown values fall back to the defaults.
func ParseOptions(duplicates, capacity string) Options {
	var o Options
	if strings.EqualFold(duplicates, "reject") {
		o.Duplicates = RejectDuplicates
	}
	if strings.EqualFold(capacity, "truncate") {
		o.Capacity = TruncateExcess
	}
	return o
}

// Builder is the in-progress Super Saver bundle for one visitor.
type Builder struct {
	mu    sync.Mutex
	opts  Options
	cfg   models.StoreConfig
	items []models.Product
	newID func() string
}

func New(cfg models.StoreConfig, opts Options) *Builder {
	return &Builder{
		opts:  opts,
		cfg:   cfg,
		newID: func() string { return "bundle-" + uuid.NewString() },
	}
}

// Price is floor(itemPrice * count * 0.9).
func Price(cfg models.StoreConfig) int {
	return cfg.BundlePrice()
}

// Add appends p unless the bundle is full or, under RejectDuplicates, p is
// already in it. It reports whether p was added.
func (b *Builder) Add(p models.Product) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) >= b.cfg.BundleItemCount {
		return false
	}
	if b.opts.Duplicates == RejectDuplicates && b.containsLocked(p.ID) {
		return false
	}
	b.items = append(b.items, p)
	return true
}

func (b *Builder) containsLocked(id string) bool {
	for _, it := range b.items {
		if it.ID == id {
			return true
		}
	}
	return false
}

// RemoveAt drops the slot at index.
func (b *Builder) RemoveAt(index int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if index < 0 || index >= len(b.items) {
		return false
	}
	b.items = slices.Delete(b.items, index, index+1)
	return true
}

// RemoveByID drops the first slot holding id.
func (b *Builder) RemoveByID(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.items, func(p models.Product) bool { return p.ID == id })
	if i < 0 {
		return false
	}
	b.items = slices.Delete(b.items, i, i+1)
	return true
}

func (b *Builder) Clear() {
	b.mu.Lock()
	b.items = nil
	b.mu.Unlock()
}

func (b *Builder) IsFull() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items) == b.cfg.BundleItemCount
}

// Snapshot returns the bundle as shown to the shopper.
func (b *Builder) Snapshot() models.Bundle {
	b.mu.Lock()
	defer b.mu.Unlock()
	items := slices.Clone(b.items)
	if items == nil {
		items = []models.Product{}
	}
	return models.Bundle{
		ID:          models.BundleDealID,
		Name:        models.BundleDealName,
		MaxItems:    b.cfg.BundleItemCount,
		BundlePrice: b.cfg.BundlePrice(),
		Items:       items,
	}
}

// Complete turns a full bundle into a single cart line and empties the
// bundle. A bundle that is not exactly full is left alone.
func (b *Builder) Complete(c *cart.Cart) (models.CartItem, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.items) == 0 || len(b.items) != b.cfg.BundleItemCount {
		return models.CartItem{}, false
	}

	names := make([]string, len(b.items))
	for i, p := range b.items {
		names[i] = p.Name
	}
	line := models.CartItem{
		Product: models.Product{
			ID:          b.newID(),
			Name:        fmt.Sprintf("%s (%s)", models.BundleDealName, strings.Join(names, ", ")),
			Price:       b.cfg.BundlePrice(),
			Category:    models.CategoryGadgets,
			Image:       b.items[0].Image,
			Description: "Group Deal",
		},
		Quantity: 1,
	}
	c.AddLine(line)
	b.items = nil
	return line, true
}

// Reconfigure applies a new store configuration.
func (b *Builder) Reconfigure(cfg models.StoreConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg = cfg
	if b.opts.Capacity == TruncateExcess && len(b.items) > cfg.BundleItemCount {
		b.items = b.items[:max(cfg.BundleItemCount, 0)]
	}
}

// Fill replaces the selection with the leading products that fit.
func (b *Builder) Fill(products []models.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = nil
	for _, p := range products {
		if len(b.items) >= b.cfg.BundleItemCount {
			break
		}
		if b.opts.Duplicates == RejectDuplicates && b.containsLocked(p.ID) {
			continue
		}
		b.items = append(b.items, p)
	}
}

// Config returns the configuration the bundle was last sized for.
func (b *Builder) Config() models.StoreConfig {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cfg
}
