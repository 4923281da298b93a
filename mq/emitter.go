package mq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"dollardash/models"

	"github.com/redis/go-redis/v9"
)

const NotificationsChannel = "dollardash-notifications"

// Publisher fans notifications out through Redis pub/sub so every service
// instance relays them to its own websocket clients.
type Publisher struct {
	client *redis.Client
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

func (p *Publisher) Publish(ctx context.Context, n models.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	if err := p.client.Publish(ctx, NotificationsChannel, data).Err(); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	log.Printf("[Emit] published %q to %s", n.Title, NotificationsChannel)
	return nil
}

// StartRelay delivers every notification published on the channel until ctx
// is cancelled.
func StartRelay(ctx context.Context, client *redis.Client, deliver func(models.Notification)) {
	sub := client.Subscribe(ctx, NotificationsChannel)
	defer sub.Close()
	ch := sub.Channel()

	log.Println("[NotifyRelay] Listening for notifications...")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			n, err := decode(msg.Payload)
			if err != nil {
				log.Printf("[NotifyRelay] Failed to parse notification: %v", err)
				continue
			}
			deliver(n)
		}
	}
}

func decode(payload string) (models.Notification, error) {
	var n models.Notification
	err := json.Unmarshal([]byte(payload), &n)
	return n, err
}
