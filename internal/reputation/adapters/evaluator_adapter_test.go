package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	donationstore "foodlink/internal/donation/store"
	"foodlink/internal/reputation"
	usermodels "foodlink/internal/user/models"
	userservice "foodlink/internal/user/service"
	userstore "foodlink/internal/user/store"
	"foodlink/pkg/testutil"
)

type EvaluatorSuite struct {
	suite.Suite
	donations *donationstore.InMemory
	users     *userstore.InMemory
	adapter   *DonationEvaluator
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) SetupTest() {
	s.donations = donationstore.NewInMemory()
	s.users = userstore.NewInMemory()
	monitor := reputation.New(s.donations, userservice.New(s.users))
	s.adapter = NewDonationEvaluator(monitor)
}

func (s *EvaluatorSuite) seed(ratings ...float64) *usermodels.User {
	ctx := context.Background()
	donor := testutil.NewUserBuilder().Build()
	s.Require().NoError(s.users.Create(ctx, donor))
	owner := testutil.OwnerOf(donor)
	for i, r := range ratings {
		l := testutil.NewListingBuilder().
			WithDonor(owner).
			Delivered(r).
			CreatedAt(testutil.FixedTime.Add(time.Duration(i)*time.Minute)).
			Build()
		s.Require().NoError(s.donations.CreateListing(ctx, l))
	}
	return donor
}

func (s *EvaluatorSuite) TestLowAverageBansThroughUserService() {
	donor := s.seed(1, 1, 2)

	s.True(s.adapter.EvaluateBan(context.Background(), donor.ID))

	stored, err := s.users.FindByID(context.Background(), donor.ID)
	s.Require().NoError(err)
	s.True(stored.Banned)
	s.Equal("Low Average Rating", stored.BanReason)
	s.NotNil(stored.BannedAt)
}

func (s *EvaluatorSuite) TestHealthyDonorIsNotBanned() {
	donor := s.seed(1, 3, 2)

	s.False(s.adapter.EvaluateBan(context.Background(), donor.ID))

	stored, err := s.users.FindByID(context.Background(), donor.ID)
	s.Require().NoError(err)
	s.False(stored.Banned)
}

func (s *EvaluatorSuite) TestConsecutiveLowRatings() {
	// oldest first: the average stays above 3 but the last three are all low
	donor := s.seed(5, 5, 5, 1, 1.5, 1)

	s.True(s.adapter.EvaluateBan(context.Background(), donor.ID))

	stored, err := s.users.FindByID(context.Background(), donor.ID)
	s.Require().NoError(err)
	s.Equal("Consecutive Low Ratings", stored.BanReason)
}
