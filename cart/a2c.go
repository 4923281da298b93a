package cart

import (
	"slices"
	"sync"

	"dollardash/models"
)

// Cart holds one visitor's lines in insertion order. Line prices are frozen
// when a product is first added.
type Cart struct {
	mu    sync.Mutex
	items []models.CartItem
}

func New() *Cart {
	return &Cart{}
}

// Add increments the line for p, or appends a new line with quantity 1.
func (c *Cart) Add(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == p.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, models.CartItem{Product: p, Quantity: 1})
}

// AddLine appends a prebuilt line as-is.
func (c *Cart) AddLine(item models.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	c.items = append(c.items, item)
}

// SetQuantity sets the quantity for id; anything below 1 removes the line.
// It reports whether the line existed.
func (c *Cart) SetQuantity(id string, qty int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(id, func(int) int { return qty })
}

func (c *Cart) Increment(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(id, func(q int) int { return q + 1 })
}

// Decrement lowers the quantity by one, dropping the line at zero.
func (c *Cart) Decrement(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(id, func(q int) int { return q - 1 })
}

func (c *Cart) setLocked(id string, next func(int) int) bool {
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		q := next(c.items[i].Quantity)
		if q < 1 {
			c.items = slices.Delete(c.items, i, i+1)
		} else {
			c.items[i].Quantity = q
		}
		return true
	}
	return false
}

func (c *Cart) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = slices.Delete(c.items, i, i+1)
			return true
		}
	}
	return false
}

// Total is the sum of price times quantity over all lines.
func (c *Cart) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, it := range c.items {
		total += it.LineTotal()
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
}

// Items returns a copy of the lines.
func (c *Cart) Items() []models.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := slices.Clone(c.items)
	if out == nil {
		out = []models.CartItem{}
	}
	return out
}

func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
