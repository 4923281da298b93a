package catalog

import (
	"fmt"
	"strings"

	"dollardash/models"
)

// Selector chooses which slice of the catalog to show.
type Selector string

const (
	All       Selector = "All"
	Favorites Selector = "Favorites"
)

// ParseSelector accepts a category name, "All" or "Favorites". Empty input
// means All. Matching is case-insensitive.
func ParseSelector(s string) (Selector, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, string(All)) {
		return All, nil
	}
	if strings.EqualFold(s, string(Favorites)) {
		return Favorites, nil
	}
	for _, c := range models.Categories {
		if strings.EqualFold(s, string(c)) {
			return Selector(c), nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// Project returns a copy of products priced at the store-wide item price.
func Project(products []models.Product, cfg models.StoreConfig) []models.Product {
	out := make([]models.Product, len(products))
	for i, p := range products {
		p.Price = cfg.ItemPrice
		out[i] = p
	}
	return out
}

// Filter narrows products by selector. favorites is only consulted for the
// Favorites selector; an empty set yields an empty list.
func Filter(products []models.Product, sel Selector, favorites map[string]bool) []models.Product {
	out := []models.Product{}
	for _, p := range products {
		switch sel {
		case All:
			out = append(out, p)
		case Favorites:
			if favorites[p.ID] {
				out = append(out, p)
			}
		default:
			if string(p.Category) == string(sel) {
				out = append(out, p)
			}
		}
	}
	return out
}
