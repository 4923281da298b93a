package models

// Notification is a foreground alert delivered to connected clients.
type Notification struct {
	Room      string            `json:"room"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

const (
	RoomShop  = "shop"
	RoomAdmin = "admin"
)
