// Package mongo wraps the mongo-driver client used by the document stores.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionUsers         = "users"
	CollectionListings      = "listings"
	CollectionNeeds         = "needs"
	CollectionNotifications = "notifications"
)

type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Client holds a connected client and the application database handle.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects and pings the primary with exponential backoff.
func New(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri not configured")
	}
	if cfg.Database == "" {
		cfg.Database = "foodlink"
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = time.Minute
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = timeout

	err = backoff.RetryNotify(func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		if logger != nil {
			logger.WarnContext(ctx, "mongo not ready, retrying",
				"error", err,
				"retry_in", next.String(),
			)
		}
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Client{client: client, db: client.Database(cfg.Database)}, nil
}

// Database returns the application database.
func (c *Client) Database() *mongo.Database {
	return c.db
}

// Health pings the primary.
func (c *Client) Health(ctx context.Context) error {
	if c == nil || c.client == nil {
		return fmt.Errorf("mongo not configured")
	}
	return c.client.Ping(ctx, readpref.Primary())
}

func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Disconnect(ctx)
}
