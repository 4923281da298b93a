package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"dollardash/cart"
	"dollardash/models"
)

// ErrSubmitFailed is the only failure shoppers see when an order cannot be
// stored.
var ErrSubmitFailed = errors.New("failed to place order, please try again")

type validationError struct {
	message string
}

func (e validationError) Error() string { return e.message }

func newValidationError(msg string) error {
	return validationError{message: msg}
}

// IsValidation separates bad input from storage failures.
func IsValidation(err error) bool {
	var v validationError
	return errors.As(err, &v)
}

// OrderCreator stores a new order and returns it with its id.
type OrderCreator interface {
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
}

// Notifier is told about every order that was stored.
type Notifier interface {
	OrderPlaced(ctx context.Context, o models.Order)
}

type Service struct {
	orders OrderCreator
	notify Notifier
	now    func() time.Time
}

// New builds the checkout service. notify may be nil.
func New(orders OrderCreator, notify Notifier) *Service {
	return &Service{orders: orders, notify: notify, now: time.Now}
}

// NormalizeCustomer trims fields and defaults the city.
func NormalizeCustomer(c models.Customer) models.Customer {
	c.Name = strings.TrimSpace(c.Name)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	if c.City == "" {
		c.City = models.Cities[0]
	}
	return c
}

// ValidateCustomer checks presence only; phone and address formats are free.
func ValidateCustomer(c models.Customer) error {
	switch {
	case c.Name == "":
		return newValidationError("name is required")
	case c.Phone == "":
		return newValidationError("phone is required")
	case c.Address == "":
		return newValidationError("address is required")
	case !slices.Contains(models.Cities, c.City):
		return newValidationError(fmt.Sprintf("city %q is not served", c.City))
	}
	return nil
}

// Submit turns the cart into an order. The cart is cleared only after the
// order is stored.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, customer models.Customer) (models.Order, error) {
	customer = NormalizeCustomer(customer)
	if err := ValidateCustomer(customer); err != nil {
		return models.Order{}, err
	}
	items := c.Items()
	if len(items) == 0 {
		return models.Order{}, newValidationError("cart is empty")
	}

	order := models.Order{
		Customer:  customer,
		Items:     items,
		Total:     c.Total(),
		Timestamp: s.now().UnixMilli(),
	}
	stored, err := s.orders.CreateOrder(ctx, order)
	if err != nil {
		log.Printf("[Checkout] create order: %v", err)
		return models.Order{}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
	}

	c.Clear()
	log.Printf("[Checkout] order %s placed, total %d", stored.ID, stored.Total)
	if s.notify != nil {
		s.notify.OrderPlaced(ctx, stored)
	}
	return stored, nil
}
