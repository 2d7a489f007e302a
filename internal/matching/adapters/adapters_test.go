package adapters

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	donation "foodlink/internal/donation/models"
	donationstore "foodlink/internal/donation/store"
	"foodlink/internal/matching"
	"foodlink/internal/matching/models"
	notification "foodlink/internal/notification/models"
	notificationservice "foodlink/internal/notification/service"
	notificationstore "foodlink/internal/notification/store"
	id "foodlink/pkg/domain"
	"foodlink/pkg/testutil"
)

type failingCreator struct{}

func (failingCreator) CreateNotification(context.Context, id.UserID, string, notification.Type, notification.Priority, notification.Refs) (*notification.Notification, error) {
	return nil, errors.New("write failed")
}

type AdaptersSuite struct {
	suite.Suite
}

func TestAdaptersSuite(t *testing.T) {
	suite.Run(t, new(AdaptersSuite))
}

func (s *AdaptersSuite) TestNotifyPersistsThroughService() {
	ctx := context.Background()
	store := notificationstore.NewInMemory()
	adapter := NewNotificationAdapter(notificationservice.New(store))

	notice := models.Notice{
		RecipientID: testutil.TestIDs.NGOID1,
		Message:     "A nearby donation matches your request for Evening meals",
		Type:        models.NoticeSuccess,
		Priority:    models.PriorityHigh,
		ListingID:   id.NewListingID(),
		NeedID:      id.NewNeedID(),
	}
	s.Require().NoError(adapter.Notify(ctx, notice))

	list, err := store.ListByRecipient(ctx, testutil.TestIDs.NGOID1, false)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(notification.TypeSuccess, list[0].Type)
	s.Equal(notification.PriorityHigh, list[0].Priority)
	s.Equal(notice.ListingID, list[0].Refs.ListingID)
	s.Equal(notice.NeedID, list[0].Refs.NeedID)
}

func (s *AdaptersSuite) TestNotifyReturnsWriteErrors() {
	adapter := NewNotificationAdapter(failingCreator{})
	s.Error(adapter.Notify(context.Background(), models.Notice{}))
}

func (s *AdaptersSuite) TestMapping() {
	s.Equal(notification.TypeInfo, mapType(models.NoticeInfo))
	s.Equal(notification.PriorityNormal, mapPriority(models.PriorityNormal))
	s.Equal(notification.PriorityNormal, mapPriority(""))
}

func (s *AdaptersSuite) TestDonationMatcherCountsMatches() {
	ctx := context.Background()
	donations := donationstore.NewInMemory()
	store := notificationstore.NewInMemory()
	engine := matching.New(donations, donations, NewNotificationAdapter(notificationservice.New(store)))
	matcher := NewDonationMatcher(engine)

	need := testutil.NewNeedBuilder().Build()
	s.Require().NoError(donations.CreateNeed(ctx, need))

	listing := testutil.NewListingBuilder().Build()
	s.Require().NoError(donations.CreateListing(ctx, listing))
	s.Equal(1, matcher.MatchForNewListing(ctx, listing))

	donorInbox, err := store.ListByRecipient(ctx, listing.DonorID, false)
	s.Require().NoError(err)
	s.Len(donorInbox, 1)

	other := testutil.NewNeedBuilder().WithCategory(donation.CategoryRaw).Build()
	s.Equal(0, matcher.MatchForNewNeed(ctx, other))
}
