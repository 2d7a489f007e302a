package matching

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/guard"
	"foodlink/internal/matching/metrics"
	"foodlink/internal/matching/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/geo"
)

type fakeNeedFinder struct {
	needs []*donation.Need
	err   error
	calls []donation.Category
}

func (f *fakeNeedFinder) FindOpenNeeds(_ context.Context, category donation.Category) ([]*donation.Need, error) {
	f.calls = append(f.calls, category)
	return f.needs, f.err
}

type fakeListingFinder struct {
	listings []*donation.Listing
	err      error
}

func (f *fakeListingFinder) FindAvailableListings(_ context.Context, _ donation.Category) ([]*donation.Listing, error) {
	return f.listings, f.err
}

type fakeNotifier struct {
	notices []models.Notice
	failFor map[id.UserID]bool
}

func (f *fakeNotifier) Notify(_ context.Context, n models.Notice) error {
	if f.failFor[n.RecipientID] {
		return errors.New("notification store unavailable")
	}
	f.notices = append(f.notices, n)
	return nil
}

type erroringGuard struct{}

func (erroringGuard) Claim(context.Context, id.ListingID, id.NeedID) (bool, error) {
	return false, errors.New("redis timeout")
}

// northOf returns a point km kilometres due north of origin.
func northOf(origin geo.Point, km float64) geo.Point {
	return geo.Point{Lat: origin.Lat + km/geo.EarthRadiusKm*180/math.Pi, Lng: origin.Lng}
}

type EngineSuite struct {
	suite.Suite
	needs    *fakeNeedFinder
	listings *fakeListingFinder
	notifier *fakeNotifier
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	engine   *Engine

	origin geo.Point
	donor  donation.Owner
	now    time.Time
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.needs = &fakeNeedFinder{}
	s.listings = &fakeListingFinder{}
	s.notifier = &fakeNotifier{failFor: map[id.UserID]bool{}}
	s.registry = prometheus.NewRegistry()
	s.metrics = metrics.New(s.registry)
	s.engine = New(s.needs, s.listings, s.notifier, WithMetrics(s.metrics))

	s.origin = geo.Point{Lat: 6.5244, Lng: 3.3792}
	s.donor = donation.Owner{ID: id.NewUserID(), Name: "Mama Put"}
	s.now = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
}

func (s *EngineSuite) listing(category donation.Category, fresh bool) *donation.Listing {
	return &donation.Listing{
		ID:        id.NewListingID(),
		DonorID:   s.donor.ID,
		Donor:     s.donor,
		Title:     "Jollof rice",
		Category:  category,
		Quantity:  20,
		Location:  s.origin,
		IsFresh:   fresh,
		Status:    donation.ListingAvailable,
		CreatedAt: s.now,
	}
}

func (s *EngineSuite) need(category donation.Category, km float64, urgency donation.Urgency, perishable bool) *donation.Need {
	ngo := donation.Owner{ID: id.NewUserID(), Name: "Hope Shelter"}
	return &donation.Need{
		ID:           id.NewNeedID(),
		NGOID:        ngo.ID,
		NGO:          ngo,
		Title:        "Evening meals",
		Category:     category,
		Quantity:     30,
		Location:     northOf(s.origin, km),
		Urgency:      urgency,
		IsPerishable: perishable,
		Status:       donation.NeedOpen,
		CreatedAt:    s.now,
	}
}

func (s *EngineSuite) TestNewListingMatchesEveryNeedInRadius() {
	first := s.need(donation.CategoryCooked, 1, donation.UrgencyStandard, false)
	second := s.need(donation.CategoryCooked, 3, donation.UrgencyStandard, false)
	s.needs.needs = []*donation.Need{first, second}
	listing := s.listing(donation.CategoryCooked, false)

	result := s.engine.MatchForNewListing(context.Background(), listing)

	s.Equal(2, result.Count())
	s.Equal(4, result.Notified)
	s.Require().Len(s.notifier.notices, 4)
	s.Equal([]donation.Category{donation.CategoryCooked}, s.needs.calls)

	s.Run("notices follow lookup order, NGO first", func() {
		s.Equal(first.NGO.ID, s.notifier.notices[0].RecipientID)
		s.Equal(s.donor.ID, s.notifier.notices[1].RecipientID)
		s.Equal(second.NGO.ID, s.notifier.notices[2].RecipientID)
		s.Equal(s.donor.ID, s.notifier.notices[3].RecipientID)
	})

	s.Run("match carries both owners and distance", func() {
		m := result.Matches[0]
		s.Equal(listing.ID, m.ListingID)
		s.Equal(first.ID, m.NeedID)
		s.Equal(s.donor.ID, m.DonorID)
		s.Equal(first.NGO.ID, m.NGOID)
		s.InDelta(1.0, m.DistanceKm, 1e-6)
	})

	s.Equal(2.0, testutil.ToFloat64(s.metrics.Matches.WithLabelValues("normal")))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Runs.WithLabelValues(metrics.TriggerListing)))
}

func (s *EngineSuite) TestRadiusBoundaryIsInclusive() {
	inside := s.need(donation.CategoryRaw, 4.9999, donation.UrgencyStandard, false)
	outside := s.need(donation.CategoryRaw, 5.0001, donation.UrgencyStandard, false)
	s.needs.needs = []*donation.Need{outside, inside}

	result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryRaw, false))

	s.Require().Equal(1, result.Count())
	s.Equal(inside.ID, result.Matches[0].NeedID)
}

func (s *EngineSuite) TestCategoryIsolation() {
	// The finder is trusted to filter, but a stray record must still never match.
	s.needs.needs = []*donation.Need{
		s.need(donation.CategoryRaw, 0, donation.UrgencyImmediate, true),
	}

	result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, true))

	s.Zero(result.Count())
	s.Empty(s.notifier.notices)
}

func (s *EngineSuite) TestSkipsClosedCounterparts() {
	closed := s.need(donation.CategoryBakery, 1, donation.UrgencyStandard, false)
	closed.Status = donation.NeedFulfilled
	s.needs.needs = []*donation.Need{closed}

	result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryBakery, false))
	s.Zero(result.Count())
}

func (s *EngineSuite) TestPriorityTagging() {
	s.Run("fresh listing with standard need is high", func() {
		s.notifier.notices = nil
		s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 1, donation.UrgencyStandard, false)}

		result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, true))

		s.Equal(models.PriorityHigh, result.Matches[0].Priority)
		s.Require().Len(s.notifier.notices, 2)
		for _, n := range s.notifier.notices {
			s.Equal(models.PriorityHigh, n.Priority)
			s.Equal(models.NoticeSuccess, n.Type)
			s.Contains(n.Message, "[High priority] ")
		}
	})

	s.Run("nothing urgent is normal", func() {
		s.notifier.notices = nil
		s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 1, donation.UrgencyUrgent, false)}

		result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, false))

		s.Equal(models.PriorityNormal, result.Matches[0].Priority)
		s.Require().Len(s.notifier.notices, 2)
		ngo, donor := s.notifier.notices[0], s.notifier.notices[1]
		s.Equal(models.PriorityNormal, ngo.Priority)
		s.Equal(models.PriorityNormal, donor.Priority)
		s.Equal(models.NoticeSuccess, ngo.Type)
		s.Equal(models.NoticeInfo, donor.Type)
		s.Equal("A nearby donation matches your request for Evening meals", ngo.Message)
		s.Equal("Your donation Jollof rice matches a nearby NGO request", donor.Message)
	})
}

func (s *EngineSuite) TestLookupFailureDegradesToZeroMatches() {
	s.needs.err = errors.New("connection reset")

	result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, false))

	s.Zero(result.Count())
	s.EqualError(result.LookupErr, "connection reset")
	s.Empty(s.notifier.notices)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.LookupFailures.WithLabelValues(metrics.TriggerListing)))
}

func (s *EngineSuite) TestNotifyFailureStillCountsMatch() {
	need := s.need(donation.CategoryCooked, 2, donation.UrgencyStandard, false)
	s.needs.needs = []*donation.Need{need}
	s.notifier.failFor[need.NGO.ID] = true

	result := s.engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, false))

	s.Equal(1, result.Count())
	s.Equal(1, result.NotifyFailures)
	s.Equal(1, result.Notified)
	s.Require().Len(s.notifier.notices, 1)
	s.Equal(s.donor.ID, s.notifier.notices[0].RecipientID)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.NotifyFailures))
}

func (s *EngineSuite) TestRepeatedRunsDuplicateWithoutGuard() {
	s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 1, donation.UrgencyStandard, false)}
	listing := s.listing(donation.CategoryCooked, false)

	s.engine.MatchForNewListing(context.Background(), listing)
	s.engine.MatchForNewListing(context.Background(), listing)

	s.Len(s.notifier.notices, 4)
}

func (s *EngineSuite) TestPairGuard() {
	s.Run("suppresses already notified pairs", func() {
		s.notifier.notices = nil
		engine := New(s.needs, s.listings, s.notifier, WithPairGuard(guard.NewMemory(time.Hour)))
		s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 1, donation.UrgencyStandard, false)}
		listing := s.listing(donation.CategoryCooked, false)

		engine.MatchForNewListing(context.Background(), listing)
		again := engine.MatchForNewListing(context.Background(), listing)

		s.Equal(1, again.Count())
		s.Equal(1, again.Suppressed)
		s.Zero(again.Notified)
		s.Len(s.notifier.notices, 2)
	})

	s.Run("guard errors fail open", func() {
		s.notifier.notices = nil
		engine := New(s.needs, s.listings, s.notifier, WithPairGuard(erroringGuard{}))
		s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 1, donation.UrgencyStandard, false)}

		result := engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, false))

		s.Equal(2, result.Notified)
		s.Zero(result.Suppressed)
	})
}

func (s *EngineSuite) TestNewNeedIsSymmetric() {
	near := s.listing(donation.CategoryBakery, false)
	claimed := s.listing(donation.CategoryBakery, false)
	claimed.Status = donation.ListingClaimed
	far := s.listing(donation.CategoryBakery, true)
	far.Location = northOf(s.origin, 12)
	s.listings.listings = []*donation.Listing{near, claimed, far}

	need := s.need(donation.CategoryBakery, 0.5, donation.UrgencyImmediate, false)
	result := s.engine.MatchForNewNeed(context.Background(), need)

	s.Require().Equal(1, result.Count())
	s.Equal(near.ID, result.Matches[0].ListingID)
	s.Equal(models.PriorityHigh, result.Matches[0].Priority, "immediate urgency")
	s.Require().Len(s.notifier.notices, 2)
	s.Equal(need.NGO.ID, s.notifier.notices[0].RecipientID)
	s.Equal(s.donor.ID, s.notifier.notices[1].RecipientID)
}

func (s *EngineSuite) TestConfigOverridesRadius() {
	engine := New(s.needs, s.listings, s.notifier, WithConfig(Config{RadiusKm: 10}))
	s.needs.needs = []*donation.Need{s.need(donation.CategoryCooked, 8, donation.UrgencyStandard, false)}

	result := engine.MatchForNewListing(context.Background(), s.listing(donation.CategoryCooked, false))
	s.Equal(1, result.Count())
}

func (s *EngineSuite) TestNewPanicsWithoutPorts() {
	s.Panics(func() { New(nil, s.listings, s.notifier) })
	s.Panics(func() { New(s.needs, nil, s.notifier) })
	s.Panics(func() { New(s.needs, s.listings, nil) })
}
