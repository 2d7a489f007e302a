package testutil

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"

	"foodlink/internal/platform/database"
	"foodlink/migrations"
)

// NewSQLiteDB opens a migrated in-memory sqlite database closed when t finishes.
func NewSQLiteDB(t testing.TB) *sqlx.DB {
	t.Helper()

	ctx := context.Background()
	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.URL = ":memory:"

	pool, err := database.New(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = pool.Close() })

	if err := database.Migrate(ctx, pool.DB(), migrations.FS); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return pool.DB()
}
