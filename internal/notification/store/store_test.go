package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodlink/internal/notification/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
	"foodlink/pkg/testutil"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, recipientID id.UserID, notificationID id.NotificationID) error
}

type contractSuite struct {
	suite.Suite
	newStore  func() Store
	store     Store
	recipient id.UserID
}

func (s *contractSuite) SetupTest() {
	s.store = s.newStore()
	s.recipient = id.NewUserID()
}

func (s *contractSuite) create(recipient id.UserID, msg string, at time.Time, refs models.Refs) *models.Notification {
	n, err := models.New(id.NewNotificationID(), recipient, msg, models.TypeSuccess, models.PriorityHigh, refs, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(context.Background(), n))
	return n
}

func (s *contractSuite) TestListNewestFirst() {
	ctx := context.Background()
	refs := models.Refs{ListingID: id.NewListingID(), NeedID: id.NewNeedID()}
	older := s.create(s.recipient, "older", testutil.FixedTime, refs)
	newer := s.create(s.recipient, "newer", testutil.FixedTime.Add(time.Minute), models.Refs{})
	s.create(id.NewUserID(), "someone else", testutil.FixedTime, models.Refs{})

	got, err := s.store.ListByRecipient(ctx, s.recipient, false)
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(newer.ID, got[0].ID)
	s.Equal(older, got[1])
	s.True(got[0].Refs.ListingID.IsNil())
}

func (s *contractSuite) TestMarkRead() {
	ctx := context.Background()
	first := s.create(s.recipient, "first", testutil.FixedTime, models.Refs{})
	s.create(s.recipient, "second", testutil.FixedTime.Add(time.Second), models.Refs{})

	s.Require().NoError(s.store.MarkRead(ctx, s.recipient, first.ID))

	unread, err := s.store.ListByRecipient(ctx, s.recipient, true)
	s.Require().NoError(err)
	s.Require().Len(unread, 1)
	s.Equal("second", unread[0].Message)

	all, err := s.store.ListByRecipient(ctx, s.recipient, false)
	s.Require().NoError(err)
	s.Len(all, 2)
	s.True(all[1].Read)

	s.Run("marking twice is harmless", func() {
		s.NoError(s.store.MarkRead(ctx, s.recipient, first.ID))
	})
}

func (s *contractSuite) TestMarkReadScopedToRecipient() {
	ctx := context.Background()
	n := s.create(s.recipient, "mine", testutil.FixedTime, models.Refs{})

	s.ErrorIs(s.store.MarkRead(ctx, id.NewUserID(), n.ID), sentinel.ErrNotFound)
	s.ErrorIs(s.store.MarkRead(ctx, s.recipient, id.NewNotificationID()), sentinel.ErrNotFound)
}

func (s *contractSuite) TestEmptyFeed() {
	got, err := s.store.ListByRecipient(context.Background(), s.recipient, false)
	s.Require().NoError(err)
	s.Empty(got)
}

func TestInMemoryStore(t *testing.T) {
	suite.Run(t, &contractSuite{newStore: func() Store { return NewInMemory() }})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &contractSuite{newStore: func() Store { return NewSQL(testutil.NewSQLiteDB(t)) }})
}
