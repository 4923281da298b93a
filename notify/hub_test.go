package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"dollardash/models"
	"dollardash/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case got := <-c.Send:
		return got
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func waitClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool { return hub.ClientCount("") == n }, time.Second, 5*time.Millisecond)
}

func TestHubRoomsAndBroadcastAll(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	shop := &Client{Send: make(chan []byte, 10), Room: models.RoomShop}
	admin := &Client{Send: make(chan []byte, 10), Room: models.RoomAdmin}
	hub.Register(shop)
	hub.Register(admin)
	waitClients(t, hub, 2)

	hub.Broadcast(models.RoomAdmin, []byte("only-admin"))
	assert.Equal(t, "only-admin", string(recv(t, admin)))

	hub.Broadcast("", []byte("everyone"))
	assert.Equal(t, "everyone", string(recv(t, shop)))
	assert.Equal(t, "everyone", string(recv(t, admin)))

	hub.Unregister(shop)
	waitClients(t, hub, 1)
	_, open := <-shop.Send
	assert.False(t, open)
}

func TestHubStopClosesClients(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	c := &Client{Send: make(chan []byte, 1), Room: models.RoomShop}
	hub.Register(c)
	waitClients(t, hub, 1)

	hub.Stop()
	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client not closed")
	}
	// must not block after stop
	hub.Broadcast("", []byte("late"))
	hub.Register(&Client{Send: make(chan []byte, 1)})
}

type failingPublisher struct{ calls int }

func (f *failingPublisher) Publish(context.Context, models.Notification) error {
	f.calls++
	return errors.New("redis down")
}

func TestOrderPlacedFallsBackToLocalDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	admin := &Client{Send: make(chan []byte, 10), Room: models.RoomAdmin}
	hub.Register(admin)
	waitClients(t, hub, 1)

	pub := &failingPublisher{}
	n := NewNotifier(hub, pub, nil)
	n.OrderPlaced(context.Background(), models.Order{
		ID:       "LOCAL-9",
		Customer: models.Customer{Name: "Zara", City: "Karachi"},
		Items:    []models.CartItem{{Quantity: 2}, {Quantity: 1}},
		Total:    300,
	})

	var msg notificationMessage
	require.NoError(t, json.Unmarshal(recv(t, admin), &msg))
	assert.Equal(t, 1, pub.calls)
	assert.Equal(t, "notification", msg.Action)
	assert.Equal(t, "New order", msg.Title)
	assert.Equal(t, "Zara ordered 3 item(s) for 300 (Karachi)", msg.Body)
	assert.Equal(t, "LOCAL-9", msg.Data["orderId"])
	assert.NotZero(t, msg.Timestamp)
}

func TestRegisterToken(t *testing.T) {
	n := NewNotifier(NewHub(), nil, nil)
	assert.ErrorIs(t, n.RegisterToken(context.Background(), "  "), ErrEmptyToken)
	require.NoError(t, n.RegisterToken(context.Background(), "tok-1"))
	require.NoError(t, n.RegisterToken(context.Background(), "tok-1"))

	tokens, err := n.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"tok-1"}, tokens)
}

func TestStatePusher(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	st := state.New()
	st.SetProducts(models.SeedProducts())
	p := NewStatePusher(hub, st, func() string { return "local" })
	p.Watch()

	shop := &Client{Send: make(chan []byte, 10), Room: models.RoomShop}
	hub.Register(shop)
	waitClients(t, hub, 1)

	st.SetConfig(models.StoreConfig{ItemPrice: 150, BundleItemCount: 6})

	var view StoreView
	require.NoError(t, json.Unmarshal(recv(t, shop), &view))
	assert.True(t, view.Offline)
	assert.Equal(t, 810, view.BundlePrice)
	assert.Equal(t, 150, view.Products[0].Price)

	assert.Len(t, p.Welcome(models.RoomShop), 1)
	assert.Len(t, p.Welcome(models.RoomAdmin), 2)
}
