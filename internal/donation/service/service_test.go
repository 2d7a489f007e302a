package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"foodlink/internal/donation/metrics"
	"foodlink/internal/donation/models"
	"foodlink/internal/donation/store"
	usermodels "foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	fixtures "foodlink/pkg/testutil"
)

type fakeUsers struct {
	users map[id.UserID]*usermodels.User
	err   error
}

func (f *fakeUsers) Get(_ context.Context, userID id.UserID) (*usermodels.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[userID]
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	return u, nil
}

type fakeMatcher struct {
	count    int
	listings []*models.Listing
	needs    []*models.Need
}

func (f *fakeMatcher) MatchForNewListing(_ context.Context, l *models.Listing) int {
	f.listings = append(f.listings, l)
	return f.count
}

func (f *fakeMatcher) MatchForNewNeed(_ context.Context, n *models.Need) int {
	f.needs = append(f.needs, n)
	return f.count
}

type fakeEvaluator struct {
	calls []id.UserID
	ban   bool
}

func (f *fakeEvaluator) EvaluateBan(_ context.Context, donorID id.UserID) bool {
	f.calls = append(f.calls, donorID)
	return f.ban
}

type failingListings struct {
	*store.InMemory
}

func (failingListings) CreateListing(context.Context, *models.Listing) error {
	return errors.New("disk full")
}

type ServiceSuite struct {
	suite.Suite
	store     *store.InMemory
	users     *fakeUsers
	matcher   *fakeMatcher
	evaluator *fakeEvaluator
	metrics   *metrics.Metrics
	service   *Service
	donor     *usermodels.User
	ngo       *usermodels.User
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.now = fixtures.FixedTime
	s.store = store.NewInMemory()
	s.donor = fixtures.NewUserBuilder().WithName("Mama Put").Build()
	s.ngo = fixtures.NewUserBuilder().NGO().WithName("Shelter North").Build()
	s.users = &fakeUsers{users: map[id.UserID]*usermodels.User{s.donor.ID: s.donor, s.ngo.ID: s.ngo}}
	s.matcher = &fakeMatcher{count: 2}
	s.evaluator = &fakeEvaluator{}
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.store, s.store, s.users, s.matcher, s.evaluator,
		WithMetrics(s.metrics),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) listingCmd() CreateListingCommand {
	return CreateListingCommand{
		Title:    "Jollof rice",
		Category: models.CategoryCooked,
		Quantity: 20,
		Location: fixtures.Lagos,
		IsFresh:  true,
	}
}

func (s *ServiceSuite) createDelivered() *models.Listing {
	l := fixtures.NewListingBuilder().WithDonor(fixtures.OwnerOf(s.donor)).WithStatus(models.ListingDelivered).Build()
	s.Require().NoError(s.store.CreateListing(context.Background(), l))
	return l
}

func (s *ServiceSuite) TestCreateListing() {
	ctx := context.Background()

	l, matches, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
	s.Require().NoError(err)
	s.Equal(2, matches)
	s.Equal(models.ListingAvailable, l.Status)
	s.Equal("Mama Put", l.Donor.Name)
	s.Equal(s.now, l.CreatedAt)

	s.Require().Len(s.matcher.listings, 1)
	s.Equal(l.ID, s.matcher.listings[0].ID)

	stored, err := s.store.FindListing(ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(l.Title, stored.Title)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.ListingsCreated.WithLabelValues("Cooked")))
}

func (s *ServiceSuite) TestCreateListingRejections() {
	ctx := context.Background()

	s.Run("ngo cannot list", func() {
		_, _, err := s.service.CreateListing(ctx, s.ngo.ID, s.listingCmd())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown caller", func() {
		_, _, err := s.service.CreateListing(ctx, id.NewUserID(), s.listingCmd())
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("banned donor", func() {
		s.donor.Ban("Low Average Rating", s.now)
		defer func() { s.donor.Banned = false }()
		_, _, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
		s.True(dErrors.HasCode(err, dErrors.CodeAccountSuspended))
	})

	s.Run("invalid listing", func() {
		cmd := s.listingCmd()
		cmd.Quantity = 0
		_, _, err := s.service.CreateListing(ctx, s.donor.ID, cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("user lookup failure keeps its code", func() {
		s.users.err = dErrors.Wrap(errors.New("down"), dErrors.CodeInternal, "failed to load user")
		defer func() { s.users.err = nil }()
		_, _, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Empty(s.matcher.listings)
}

func (s *ServiceSuite) TestCreateListingStoreFailure() {
	svc := New(failingListings{s.store}, s.store, s.users, s.matcher, s.evaluator)
	_, _, err := svc.CreateListing(context.Background(), s.donor.ID, s.listingCmd())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	s.Empty(s.matcher.listings)
}

func (s *ServiceSuite) TestCreateNeed() {
	ctx := context.Background()
	cmd := CreateNeedCommand{
		Title:    "Evening meals",
		Category: models.CategoryCooked,
		Quantity: 40,
		Location: fixtures.Lagos,
		Urgency:  models.UrgencyImmediate,
	}

	n, matches, err := s.service.CreateNeed(ctx, s.ngo.ID, cmd)
	s.Require().NoError(err)
	s.Equal(2, matches)
	s.Equal(models.NeedOpen, n.Status)
	s.Equal("Shelter North", n.NGO.Name)
	s.Require().Len(s.matcher.needs, 1)

	s.Run("donor cannot post needs", func() {
		_, _, err := s.service.CreateNeed(ctx, s.donor.ID, cmd)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}

func (s *ServiceSuite) TestGetters() {
	ctx := context.Background()

	_, err := s.service.GetListing(ctx, id.NewListingID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	_, err = s.service.GetNeed(ctx, id.NewNeedID())
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	l, _, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
	s.Require().NoError(err)
	got, err := s.service.GetListing(ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(l.ID, got.ID)

	list, err := s.service.ListListings(ctx, models.ListingFilter{DonorID: s.donor.ID})
	s.Require().NoError(err)
	s.Len(list, 1)

	needs, err := s.service.ListNeeds(ctx, models.NeedFilter{})
	s.Require().NoError(err)
	s.Empty(needs)
}

func (s *ServiceSuite) TestUpdateListingStatus() {
	ctx := context.Background()
	l, _, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
	s.Require().NoError(err)

	s.Run("ngo records the handoff", func() {
		got, err := s.service.UpdateListingStatus(ctx, s.ngo.ID, l.ID, models.ListingClaimed)
		s.Require().NoError(err)
		s.Equal(models.ListingClaimed, got.Status)
	})

	s.Run("ngo cannot cancel", func() {
		_, err := s.service.UpdateListingStatus(ctx, s.ngo.ID, l.ID, models.ListingCancelled)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("other donor is forbidden", func() {
		other := fixtures.NewUserBuilder().Build()
		s.users.users[other.ID] = other
		_, err := s.service.UpdateListingStatus(ctx, other.ID, l.ID, models.ListingInTransit)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("skipping a step is rejected", func() {
		_, err := s.service.UpdateListingStatus(ctx, s.donor.ID, l.ID, models.ListingAvailable)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("owner moves it on", func() {
		_, err := s.service.UpdateListingStatus(ctx, s.donor.ID, l.ID, models.ListingInTransit)
		s.Require().NoError(err)
		stored, err := s.store.FindListing(ctx, l.ID)
		s.Require().NoError(err)
		s.Equal(models.ListingInTransit, stored.Status)
	})

	s.Equal(1.0, testutil.ToFloat64(s.metrics.StatusChanges.WithLabelValues("listing", "Claimed")))
}

func (s *ServiceSuite) TestRateListing() {
	ctx := context.Background()
	l := s.createDelivered()

	got, err := s.service.RateListing(ctx, s.ngo.ID, l.ID, 1.5)
	s.Require().NoError(err)
	s.Equal(1.5, got.Rating)
	s.Equal([]id.UserID{s.donor.ID}, s.evaluator.calls)

	stored, err := s.store.FindListing(ctx, l.ID)
	s.Require().NoError(err)
	s.Equal(1.5, stored.Rating)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.RatingsSubmitted))

	s.Run("re-rating overwrites", func() {
		got, err := s.service.RateListing(ctx, s.ngo.ID, l.ID, 4)
		s.Require().NoError(err)
		s.Equal(4.0, got.Rating)
		s.Len(s.evaluator.calls, 2)
	})
}

func (s *ServiceSuite) TestRateListingRejections() {
	ctx := context.Background()
	delivered := s.createDelivered()

	s.Run("donor cannot rate", func() {
		_, err := s.service.RateListing(ctx, s.donor.ID, delivered.ID, 3)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("out of range", func() {
		_, err := s.service.RateListing(ctx, s.ngo.ID, delivered.ID, 6)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("not delivered", func() {
		l, _, err := s.service.CreateListing(ctx, s.donor.ID, s.listingCmd())
		s.Require().NoError(err)
		_, err = s.service.RateListing(ctx, s.ngo.ID, l.ID, 3)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	s.Run("missing listing", func() {
		_, err := s.service.RateListing(ctx, s.ngo.ID, id.NewListingID(), 3)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Empty(s.evaluator.calls)
}

func (s *ServiceSuite) TestRatingSucceedsWhenDonorIsBanned() {
	s.evaluator.ban = true
	l := s.createDelivered()
	_, err := s.service.RateListing(context.Background(), s.ngo.ID, l.ID, 1)
	s.Require().NoError(err)
	s.Len(s.evaluator.calls, 1)
}

func (s *ServiceSuite) TestUpdateNeedStatus() {
	ctx := context.Background()
	n, _, err := s.service.CreateNeed(ctx, s.ngo.ID, CreateNeedCommand{
		Title:    "Bread",
		Category: models.CategoryBakery,
		Quantity: 5,
		Location: fixtures.Lagos,
	})
	s.Require().NoError(err)

	_, err = s.service.UpdateNeedStatus(ctx, s.donor.ID, n.ID, models.NeedFulfilled)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

	got, err := s.service.UpdateNeedStatus(ctx, s.ngo.ID, n.ID, models.NeedFulfilled)
	s.Require().NoError(err)
	s.Equal(models.NeedFulfilled, got.Status)

	_, err = s.service.UpdateNeedStatus(ctx, s.ngo.ID, n.ID, models.NeedCancelled)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *ServiceSuite) TestNewPanicsOnMissingPorts() {
	s.Panics(func() { New(nil, s.store, s.users, s.matcher, s.evaluator) })
	s.Panics(func() { New(s.store, s.store, s.users, nil, s.evaluator) })
	s.Panics(func() { New(s.store, s.store, s.users, s.matcher, nil) })
}
