package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/arklim/social-platform-auth/internal/infra/config"
)

// MongoClient wraps the driver client with lifecycle management.
type MongoClient struct {
	client   *mongo.Client
	database *mongo.Database
	log      *zap.Logger
}

// NewMongoClient connects to MongoDB and verifies connectivity.
func NewMongoClient(ctx context.Context, cfg config.MongoSettings, log *zap.Logger) (*MongoClient, error) {
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongodb ping failed: %w", err)
	}

	log.Info("connected to mongodb", zap.String("database", cfg.Database))

	return &MongoClient{
		client:   client,
		database: client.Database(cfg.Database),
		log:      log,
	}, nil
}

// Database returns the configured database handle.
func (c *MongoClient) Database() *mongo.Database {
	return c.database
}

// Ping verifies connectivity for readiness checks.
func (c *MongoClient) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongodb ping failed: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoClient) Close(ctx context.Context) error {
	c.log.Info("closing mongodb connection")
	if err := c.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("disconnect mongodb: %w", err)
	}
	return nil
}
