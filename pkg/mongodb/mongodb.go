package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Alijeyrad/ticketcreator_backend/config"
)

// ConnectTimeout returns the dial+ping budget as a duration.
func ConnectTimeout(c config.MongoConfig) time.Duration {
	if c.ConnectTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.ConnectTimeoutSeconds) * time.Second
}

// Connect opens a client and verifies the primary is reachable.
func Connect(ctx context.Context, c config.MongoConfig) (*mongo.Client, error) {
	if c.URI == "" {
		return nil, fmt.Errorf("mongo uri is empty")
	}

	timeout := ConnectTimeout(c)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(c.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect failed: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping failed: %w", err)
	}

	return client, nil
}

// Collection resolves the configured tickets collection.
func Collection(client *mongo.Client, c config.MongoConfig) *mongo.Collection {
	return client.Database(c.Database).Collection(c.Collection)
}
