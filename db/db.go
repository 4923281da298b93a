package db

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	ProductsCollection *mongo.Collection
	OrdersCollection   *mongo.Collection
	SettingsCollection *mongo.Collection
	Client             *mongo.Client
)

// Connect opens the MongoDB client and binds the shop collections.
func Connect(ctx context.Context, uri, database string) error {
	if uri == "" {
		return fmt.Errorf("mongo: no connection uri")
	}

	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(5 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongo ping: %w", err)
	}

	Client = client
	ProductsCollection = client.Database(database).Collection("products")
	OrdersCollection = client.Database(database).Collection("orders")
	SettingsCollection = client.Database(database).Collection("settings")

	log.Printf("[DB] connected to %s", database)
	return nil
}

// Disconnect closes the client if Connect succeeded.
func Disconnect(ctx context.Context) {
	if Client == nil {
		return
	}
	if err := Client.Disconnect(ctx); err != nil {
		log.Printf("[DB] disconnect: %v", err)
	}
}
