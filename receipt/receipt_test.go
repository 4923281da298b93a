package receipt

import (
	"bytes"
	"strings"
	"testing"

	"dollardash/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var order = models.Order{
	ID:       "LOCAL-1700000000000",
	Customer: models.Customer{Name: "Bilal", Phone: "0321", Address: "Main Blvd", City: "Lahore"},
	Items: []models.CartItem{
		{Product: models.Product{ID: "1", Name: "Chips", Price: 100}, Quantity: 2},
		{Product: models.Product{ID: "bundle-x", Name: "Super Saver Bundle (A, B, C, D, E, F)", Price: 540}, Quantity: 1},
	},
	Total:     740,
	Timestamp: 1700000000000,
}

func TestPayloadRoundTrip(t *testing.T) {
	p := NewPrinter("secret")
	payload := p.Payload(order)

	assert.True(t, strings.HasPrefix(payload, "LOCAL-1700000000000|740|"))
	assert.True(t, p.Verify(payload))
	assert.False(t, NewPrinter("other").Verify(payload))
	assert.False(t, p.Verify(strings.Replace(payload, "|740|", "|10|", 1)))
	assert.False(t, p.Verify("garbage"))
}

func TestRenderProducesPDF(t *testing.T) {
	pdf, err := NewPrinter("secret").Render(order)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab...", truncate("abcdefgh", 5))
}
