package models

// CartItem is a product line with its quantity. Price is frozen at add time.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (c CartItem) LineTotal() int {
	return c.Price * c.Quantity
}

// Bundle is the in-progress fixed-capacity deal.
type Bundle struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MaxItems    int       `json:"maxItems"`
	BundlePrice int       `json:"bundlePrice"`
	Items       []Product `json:"items"`
}

const (
	BundleDealID   = "super-saver"
	BundleDealName = "Super Saver Bundle"
)
