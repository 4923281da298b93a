package rdx

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Conn is nil until Connect succeeds; callers fall back to in-process
// delivery without it.
var Conn *redis.Client

// Connect dials Redis and verifies the connection.
func Connect(ctx context.Context, addr, password string) error {
	if addr == "" {
		return fmt.Errorf("redis: no address")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return fmt.Errorf("redis ping: %w", err)
	}

	Conn = client
	log.Printf("[Redis] connected to %s", addr)
	return nil
}

func Close() {
	if Conn == nil {
		return
	}
	if err := Conn.Close(); err != nil {
		log.Printf("[Redis] close: %v", err)
	}
}
