package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
	"foodlink/pkg/testutil"
)

// Store is the behavior every user store implementation shares.
type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error
}

// contractSuite runs against every implementation. newStore must return an empty store.
type contractSuite struct {
	suite.Suite
	newStore func() Store
	store    Store
}

func (s *contractSuite) SetupTest() {
	s.store = s.newStore()
}

func (s *contractSuite) TestCreateAndFind() {
	ctx := context.Background()
	u := testutil.NewUserBuilder().WithName("Mama Put").Build()
	s.Require().NoError(s.store.Create(ctx, u))

	byID, err := s.store.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u, byID)

	byEmail, err := s.store.FindByEmail(ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
}

func (s *contractSuite) TestDuplicates() {
	ctx := context.Background()
	u := testutil.NewUserBuilder().Build()
	s.Require().NoError(s.store.Create(ctx, u))

	s.Run("same id", func() {
		dup := testutil.NewUserBuilder().WithID(u.ID).Build()
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrAlreadyUsed)
	})

	s.Run("same email", func() {
		dup := testutil.NewUserBuilder().WithEmail(u.Email).Build()
		s.ErrorIs(s.store.Create(ctx, dup), sentinel.ErrAlreadyUsed)
	})
}

func (s *contractSuite) TestNotFound() {
	ctx := context.Background()

	_, err := s.store.FindByID(ctx, id.NewUserID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	_, err = s.store.FindByEmail(ctx, "nobody@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.ErrorIs(s.store.Ban(ctx, id.NewUserID(), "Low Average Rating", testutil.FixedTime), sentinel.ErrNotFound)
}

func (s *contractSuite) TestBanIsRewritten() {
	ctx := context.Background()
	u := testutil.NewUserBuilder().Build()
	s.Require().NoError(s.store.Create(ctx, u))

	first := testutil.FixedTime.Add(time.Hour)
	second := first.Add(time.Hour)
	s.Require().NoError(s.store.Ban(ctx, u.ID, "Low Average Rating", first))
	s.Require().NoError(s.store.Ban(ctx, u.ID, "Consecutive Low Ratings", second))

	got, err := s.store.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.True(got.Banned)
	s.Equal("Consecutive Low Ratings", got.BanReason)
	s.Require().NotNil(got.BannedAt)
	s.True(second.Equal(*got.BannedAt))
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &contractSuite{newStore: func() Store { return NewInMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &contractSuite{newStore: func() Store { return NewSQL(testutil.NewSQLiteDB(t)) }})
}

func TestInMemoryStoreReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewInMemory()
	u := testutil.NewUserBuilder().Build()
	if err := s.Create(ctx, u); err != nil {
		t.Fatal(err)
	}

	got, _ := s.FindByID(ctx, u.ID)
	got.Name = "mutated"

	again, _ := s.FindByID(ctx, u.ID)
	if again.Name == "mutated" {
		t.Fatal("store handed out its internal record")
	}
}
