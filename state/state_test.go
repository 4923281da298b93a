package state

import (
	"testing"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGettersReturnCopies(t *testing.T) {
	s := New()
	s.SetProducts([]models.Product{{ID: "1", Name: "Mug"}})

	got := s.Products()
	got[0].Name = "changed"

	p, ok := s.Product("1")
	require.True(t, ok)
	assert.Equal(t, "Mug", p.Name)
}

func TestListenersSeeEveryChange(t *testing.T) {
	s := New()
	var kinds []Kind
	s.OnChange(func(k Kind) { kinds = append(kinds, k) })

	s.SetProducts(nil)
	s.SetConfig(models.StoreConfig{ItemPrice: 50, BundleItemCount: 2})
	s.UpdateOrders(func(o []models.Order) []models.Order {
		return append([]models.Order{{ID: "LOCAL-1"}}, o...)
	})

	assert.Equal(t, []Kind{KindProducts, KindConfig, KindOrders}, kinds)
	assert.Equal(t, 50, s.Config().ItemPrice)
	assert.Len(t, s.Orders(), 1)
}

func TestResetRestoresDefaults(t *testing.T) {
	s := New()
	s.SetConfig(models.StoreConfig{ItemPrice: 1, BundleItemCount: 1})
	s.SetOrders([]models.Order{{ID: "x"}})

	var kinds []Kind
	s.OnChange(func(k Kind) { kinds = append(kinds, k) })

	s.Reset()
	assert.Equal(t, models.DefaultStoreConfig(), s.Config())
	assert.Empty(t, s.Orders())
	assert.Equal(t, []Kind{KindProducts, KindOrders, KindConfig}, kinds)
}
