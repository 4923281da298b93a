package bundle

import (
	"fmt"
	"testing"

	"dollardash/cart"
	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(i int) models.Product {
	return models.Product{
		ID:    fmt.Sprint(i),
		Name:  fmt.Sprintf("Item %d", i),
		Price: 100,
		Image: fmt.Sprintf("https://img/%d.png", i),
	}
}

func TestPrice(t *testing.T) {
	assert.Equal(t, 540, Price(models.StoreConfig{ItemPrice: 100, BundleItemCount: 6}))
	assert.Equal(t, 6, Price(models.StoreConfig{ItemPrice: 7, BundleItemCount: 1}))
	assert.Equal(t, 0, Price(models.StoreConfig{ItemPrice: 0, BundleItemCount: 6}))
}

func TestAddNeverExceedsCapacity(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	for i := 1; i <= 6; i++ {
		require.True(t, b.Add(product(i)))
	}

	assert.False(t, b.Add(product(7)))
	assert.Len(t, b.Snapshot().Items, 6)
	assert.True(t, b.IsFull())
}

func TestDuplicatePolicies(t *testing.T) {
	allow := New(models.DefaultStoreConfig(), Options{})
	assert.True(t, allow.Add(product(1)))
	assert.True(t, allow.Add(product(1)))
	assert.Len(t, allow.Snapshot().Items, 2)

	reject := New(models.DefaultStoreConfig(), Options{Duplicates: RejectDuplicates})
	assert.True(t, reject.Add(product(1)))
	assert.False(t, reject.Add(product(1)))
	assert.Len(t, reject.Snapshot().Items, 1)
}

func TestCompleteFullBundle(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	b.newID = func() string { return "bundle-test" }
	for i := 1; i <= 6; i++ {
		b.Add(product(i))
	}
	c := cart.New()

	line, ok := b.Complete(c)
	require.True(t, ok)
	assert.Equal(t, "bundle-test", line.ID)
	assert.Equal(t, 540, line.Price)
	assert.Equal(t, 1, line.Quantity)
	assert.Equal(t, models.CategoryGadgets, line.Category)
	assert.Equal(t, "Group Deal", line.Description)
	assert.Equal(t, "https://img/1.png", line.Image)
	assert.Equal(t, "Super Saver Bundle (Item 1, Item 2, Item 3, Item 4, Item 5, Item 6)", line.Name)

	assert.Empty(t, b.Snapshot().Items)
	assert.Equal(t, 540, c.Total())
	assert.Len(t, c.Items(), 1)
}

func TestCompletePartialBundleIsNoop(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	b.Add(product(1))
	b.Add(product(2))
	c := cart.New()

	_, ok := b.Complete(c)
	assert.False(t, ok)
	assert.Len(t, b.Snapshot().Items, 2)
	assert.Empty(t, c.Items())
}

func TestRemove(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	b.Add(product(1))
	b.Add(product(2))
	b.Add(product(1))

	assert.True(t, b.RemoveAt(1))
	assert.False(t, b.RemoveAt(5))
	assert.Len(t, b.Snapshot().Items, 2)

	assert.True(t, b.RemoveByID("1"))
	assert.Len(t, b.Snapshot().Items, 1)
	assert.False(t, b.RemoveByID("9"))
}

func TestRemoveByIDDropsFirstMatchOnly(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	b.Add(product(1))
	b.Add(product(2))
	b.Add(product(1))

	require.True(t, b.RemoveByID("1"))
	items := b.Snapshot().Items
	require.Len(t, items, 2)
	assert.Equal(t, "2", items[0].ID)
	assert.Equal(t, "1", items[1].ID)
}

func TestReconfigure(t *testing.T) {
	full := func(opts Options) *Builder {
		b := New(models.DefaultStoreConfig(), opts)
		for i := 1; i <= 6; i++ {
			b.Add(product(i))
		}
		return b
	}
	smaller := models.StoreConfig{ItemPrice: 100, BundleItemCount: 4}

	kept := full(Options{})
	kept.Reconfigure(smaller)
	snap := kept.Snapshot()
	assert.Len(t, snap.Items, 6)
	assert.Equal(t, 4, snap.MaxItems)
	assert.Equal(t, 360, snap.BundlePrice)
	assert.False(t, kept.Add(product(9)))
	_, ok := kept.Complete(cart.New())
	assert.False(t, ok)

	cut := full(Options{Capacity: TruncateExcess})
	cut.Reconfigure(smaller)
	assert.Len(t, cut.Snapshot().Items, 4)
	_, ok = cut.Complete(cart.New())
	assert.True(t, ok)
}

func TestPriceChangeReflectedBeforeCompletion(t *testing.T) {
	b := New(models.DefaultStoreConfig(), Options{})
	b.Reconfigure(models.StoreConfig{ItemPrice: 150, BundleItemCount: 6})
	assert.Equal(t, 810, b.Snapshot().BundlePrice)
}

func TestFill(t *testing.T) {
	b := New(models.StoreConfig{ItemPrice: 100, BundleItemCount: 3}, Options{})
	b.Add(product(9))

	b.Fill([]models.Product{product(1), product(2), product(3), product(4)})
	items := b.Snapshot().Items
	require.Len(t, items, 3)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "3", items[2].ID)
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, Options{}, ParseOptions("allow", "preserve"))
	assert.Equal(t, Options{Duplicates: RejectDuplicates, Capacity: TruncateExcess}, ParseOptions("REJECT", "truncate"))
}
