package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	donationservice "foodlink/internal/donation/service"
	donationstore "foodlink/internal/donation/store"
	matchingports "foodlink/internal/matching/ports"
	notificationservice "foodlink/internal/notification/service"
	notificationstore "foodlink/internal/notification/store"
	"foodlink/internal/platform/config"
	"foodlink/internal/platform/database"
	"foodlink/internal/platform/health"
	platformmongo "foodlink/internal/platform/mongo"
	reputationports "foodlink/internal/reputation/ports"
	userservice "foodlink/internal/user/service"
	userstore "foodlink/internal/user/store"
	"foodlink/migrations"
)

// donationStore is what every donation store implementation provides to the
// service, the matching engine and the reputation monitor.
type donationStore interface {
	donationservice.ListingStore
	donationservice.NeedStore
	matchingports.NeedFinder
	matchingports.ListingFinder
	reputationports.RatingsReader
}

type stores struct {
	users         userservice.Store
	donations     donationStore
	notifications notificationservice.Store
	close         func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.Server, logger *slog.Logger, checks *health.Handler) (*stores, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres, config.DriverSQLite:
		return openSQL(ctx, cfg, logger, checks)
	case config.DriverMongo:
		return openMongo(ctx, cfg, logger, checks)
	default:
		donations := donationstore.NewInMemory()
		return &stores{
			users:         userstore.NewInMemory(),
			donations:     donations,
			notifications: notificationstore.NewInMemory(),
			close:         func(context.Context) error { return nil },
		}, nil
	}
}

func openSQL(ctx context.Context, cfg config.Server, logger *slog.Logger, checks *health.Handler) (*stores, error) {
	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.Database.URL
	dbCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	dbCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	dbCfg.ConnMaxLifetime = cfg.Database.ConnMaxLifetime
	if cfg.Store.Driver == config.DriverSQLite {
		dbCfg.Driver = database.DriverSQLite
	}

	pool, err := database.New(ctx, dbCfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	checks.RegisterCheck("database", pool.Health)
	logger.InfoContext(ctx, "sql store ready", "driver", dbCfg.Driver)

	db := pool.DB()
	return &stores{
		users:         userstore.NewSQL(db),
		donations:     donationstore.NewSQL(db),
		notifications: notificationstore.NewSQL(db),
		close:         func(context.Context) error { return pool.Close() },
	}, nil
}

func openMongo(ctx context.Context, cfg config.Server, logger *slog.Logger, checks *health.Handler) (*stores, error) {
	client, err := platformmongo.New(ctx, platformmongo.Config{
		URI:            cfg.Mongo.URI,
		Database:       cfg.Mongo.Database,
		ConnectTimeout: time.Minute,
	}, logger)
	if err != nil {
		return nil, err
	}

	db := client.Database()
	users := userstore.NewMongo(db)
	donations := donationstore.NewMongo(db)
	notifications := notificationstore.NewMongo(db)
	for name, ensure := range map[string]func(context.Context) error{
		"users":         users.EnsureIndexes,
		"donations":     donations.EnsureIndexes,
		"notifications": notifications.EnsureIndexes,
	} {
		if err := ensure(ctx); err != nil {
			_ = client.Close(context.Background())
			return nil, fmt.Errorf("ensure %s indexes: %w", name, err)
		}
	}
	checks.RegisterCheck("mongo", client.Health)
	logger.InfoContext(ctx, "mongo store ready", "database", cfg.Mongo.Database)

	return &stores{
		users:         users,
		donations:     donations,
		notifications: notifications,
		close:         client.Close,
	}, nil
}
