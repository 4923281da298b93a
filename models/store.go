package models

// StoreConfig is the singleton pricing document.
type StoreConfig struct {
	ItemPrice       int `json:"itemPrice"`
	BundleItemCount int `json:"bundleItemCount"`
}

// DefaultStoreConfig is written when the remote settings document is missing.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{ItemPrice: 100, BundleItemCount: 6}
}

// BundlePrice is the fixed price of a full bundle: a 10% discount on the
// undiscounted total, rounded down.
func (c StoreConfig) BundlePrice() int {
	return c.ItemPrice * c.BundleItemCount * 9 / 10
}
