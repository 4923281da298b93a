package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"dollardash/models"
)

// Publisher hands a notification to every service instance.
type Publisher interface {
	Publish(ctx context.Context, n models.Notification) error
}

// TokenRegistry remembers push registration tokens.
type TokenRegistry interface {
	Add(ctx context.Context, token string) error
	All(ctx context.Context) ([]string, error)
}

var ErrEmptyToken = errors.New("device token is required")

type Notifier struct {
	hub    *Hub
	pub    Publisher
	tokens TokenRegistry
	now    func() time.Time
}

// NewNotifier builds a notifier. Without a publisher notifications go
// straight to the local hub.
func NewNotifier(hub *Hub, pub Publisher, tokens TokenRegistry) *Notifier {
	if tokens == nil {
		tokens = NewMemoryTokens()
	}
	return &Notifier{hub: hub, pub: pub, tokens: tokens, now: time.Now}
}

type notificationMessage struct {
	Action string `json:"action"`
	models.Notification
}

// Deliver pushes n to the connected clients of its room.
func (n *Notifier) Deliver(note models.Notification) {
	data, err := json.Marshal(notificationMessage{Action: "notification", Notification: note})
	if err != nil {
		log.Printf("[Notify] marshal: %v", err)
		return
	}
	n.hub.Broadcast(note.Room, data)
}

// Send publishes note, falling back to local delivery if publishing fails.
func (n *Notifier) Send(ctx context.Context, note models.Notification) {
	if note.Timestamp == 0 {
		note.Timestamp = n.now().UnixMilli()
	}
	if n.pub != nil {
		err := n.pub.Publish(ctx, note)
		if err == nil {
			return
		}
		log.Printf("[Notify] publish failed, delivering locally: %v", err)
	}
	n.Deliver(note)
}

// OrderPlaced alerts the admin room about a new order.
func (n *Notifier) OrderPlaced(ctx context.Context, o models.Order) {
	units := 0
	for _, it := range o.Items {
		units += it.Quantity
	}
	n.Send(ctx, models.Notification{
		Room:  models.RoomAdmin,
		Title: "New order",
		Body:  fmt.Sprintf("%s ordered %d item(s) for %d (%s)", o.Customer.Name, units, o.Total, o.Customer.City),
		Data:  map[string]string{"orderId": o.ID},
	})
}

func (n *Notifier) RegisterToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	return n.tokens.Add(ctx, token)
}

func (n *Notifier) Tokens(ctx context.Context) ([]string, error) {
	return n.tokens.All(ctx)
}

// MemoryTokens is the registry used when Redis is not configured.
type MemoryTokens struct {
	mu     sync.Mutex
	tokens map[string]bool
}

func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{tokens: map[string]bool{}}
}

func (m *MemoryTokens) Add(_ context.Context, token string) error {
	m.mu.Lock()
	m.tokens[token] = true
	m.mu.Unlock()
	return nil
}

func (m *MemoryTokens) All(context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.tokens))
	for t := range m.tokens {
		out = append(out, t)
	}
	return out, nil
}
