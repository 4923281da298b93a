package rdx

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const deviceTokensKey = "dollardash:device-tokens"

// DeviceTokens keeps push registration tokens in a Redis set.
type DeviceTokens struct {
	client *redis.Client
}

func NewDeviceTokens(client *redis.Client) *DeviceTokens {
	return &DeviceTokens{client: client}
}

func (d *DeviceTokens) Add(ctx context.Context, token string) error {
	if err := d.client.SAdd(ctx, deviceTokensKey, token).Err(); err != nil {
		return fmt.Errorf("sadd device token: %w", err)
	}
	return nil
}

func (d *DeviceTokens) All(ctx context.Context) ([]string, error) {
	tokens, err := d.client.SMembers(ctx, deviceTokensKey).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers device tokens: %w", err)
	}
	return tokens, nil
}
