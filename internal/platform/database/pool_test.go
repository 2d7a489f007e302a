package database

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/suite"

	"foodlink/migrations"
)

type PoolSuite struct {
	suite.Suite
	pool *Pool
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func (s *PoolSuite) SetupTest() {
	cfg := DefaultConfig()
	cfg.Driver = DriverSQLite
	cfg.URL = ":memory:"
	pool, err := New(context.Background(), cfg, nil)
	s.Require().NoError(err)
	s.pool = pool
}

func (s *PoolSuite) TearDownTest() {
	s.NoError(s.pool.Close())
}

func (s *PoolSuite) TestHealth() {
	s.NoError(s.pool.Health(context.Background()))

	var nilPool *Pool
	s.Error(nilPool.Health(context.Background()))
}

func (s *PoolSuite) TestMigrateCreatesSchema() {
	ctx := context.Background()
	s.Require().NoError(Migrate(ctx, s.pool.DB(), migrations.FS))

	for _, table := range []string{"users", "listings", "needs", "notifications"} {
		var count int
		err := s.pool.DB().GetContext(ctx, &count,
			`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		s.Require().NoError(err)
		s.Equal(1, count, table)
	}

	s.Run("is idempotent", func() {
		s.NoError(Migrate(ctx, s.pool.DB(), migrations.FS))
	})
}

func (s *PoolSuite) TestMigrateOrdersFilesAndSkipsDown() {
	fsys := fstest.MapFS{
		"002_b.up.sql":   {Data: []byte(`INSERT INTO t (v) VALUES ('second');`)},
		"001_a.up.sql":   {Data: []byte(`CREATE TABLE t (v TEXT);`)},
		"001_a.down.sql": {Data: []byte(`DROP TABLE t;`)},
	}
	ctx := context.Background()
	s.Require().NoError(Migrate(ctx, s.pool.DB(), fsys))

	var v string
	s.Require().NoError(s.pool.DB().GetContext(ctx, &v, `SELECT v FROM t`))
	s.Equal("second", v)
}

func (s *PoolSuite) TestNewRequiresURL() {
	_, err := New(context.Background(), Config{Driver: DriverSQLite}, nil)
	s.Error(err)
}
