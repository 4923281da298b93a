package catalog

import (
	"testing"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSelector(t *testing.T) {
	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{"Favorites", Favorites, false},
		{"self-care", Selector(models.CategorySelfCare), false},
		{"Gadgets", Selector(models.CategoryGadgets), false},
		{"Toys", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSelector(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestProjectOverridesPrice(t *testing.T) {
	products := models.SeedProducts()
	cfg := models.StoreConfig{ItemPrice: 150, BundleItemCount: 6}

	got := Project(products, cfg)
	for _, p := range got {
		assert.Equal(t, 150, p.Price)
	}
	assert.Equal(t, 100, products[0].Price, "input must not be mutated")
}

func TestFilter(t *testing.T) {
	products := []models.Product{
		{ID: "1", Category: models.CategorySnacks},
		{ID: "2", Category: models.CategoryGadgets},
		{ID: "3", Category: models.CategorySnacks},
	}

	assert.Len(t, Filter(products, All, nil), 3)
	assert.Len(t, Filter(products, Selector(models.CategorySnacks), nil), 2)
	assert.Empty(t, Filter(products, Selector(models.CategoryStationery), nil))

	fav := Filter(products, Favorites, map[string]bool{"2": true})
	require.Len(t, fav, 1)
	assert.Equal(t, "2", fav[0].ID)
}

func TestFilterFavoritesEmptySet(t *testing.T) {
	got := Filter(models.SeedProducts(), Favorites, map[string]bool{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

type memFavorites map[string][]string

func (m memFavorites) Favorites(v string) ([]string, error) { return m[v], nil }
func (m memFavorites) SetFavorites(v string, ids []string) error {
	m[v] = ids
	return nil
}

func TestFavoriteSetToggleWritesThrough(t *testing.T) {
	store := memFavorites{"v": {"3"}}
	f := LoadFavorites(store, "v")
	assert.True(t, f.Contains("3"))

	on, err := f.Toggle("1")
	require.NoError(t, err)
	assert.True(t, on)
	assert.Equal(t, []string{"1", "3"}, store["v"])

	on, err = f.Toggle("3")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, []string{"1"}, f.IDs())
	assert.Equal(t, []string{"1"}, store["v"])
}
