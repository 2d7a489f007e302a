package seeder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	donation "foodlink/internal/donation/models"
	donationstore "foodlink/internal/donation/store"
	jwttoken "foodlink/internal/platform/jwt"
	userstore "foodlink/internal/user/store"
)

type SeederSuite struct {
	suite.Suite
	users     *userstore.InMemory
	donations *donationstore.InMemory
	tokens    *jwttoken.Service
}

func TestSeederSuite(t *testing.T) {
	suite.Run(t, new(SeederSuite))
}

func (s *SeederSuite) SetupTest() {
	s.users = userstore.NewInMemory()
	s.donations = donationstore.NewInMemory()
	s.tokens = jwttoken.NewService("test-key", time.Hour)
}

func (s *SeederSuite) TestSeedAll() {
	ctx := context.Background()
	accounts, err := New(s.users, s.donations, s.tokens, nil).SeedAll(ctx)
	s.Require().NoError(err)
	s.Len(accounts, 5)

	for _, a := range accounts {
		stored, err := s.users.FindByID(ctx, a.User.ID)
		s.Require().NoError(err)
		s.Equal(a.User.Email, stored.Email)

		claims, err := s.tokens.ValidateToken(a.Token)
		s.Require().NoError(err)
		s.Equal(a.User.ID.String(), claims.UserID)
		s.Equal(string(a.User.Role), claims.Role)
	}

	open, err := s.donations.FindOpenNeeds(ctx, donation.CategoryCooked)
	s.Require().NoError(err)
	s.Len(open, 1)

	listings, err := s.donations.ListListings(ctx, donation.ListingFilter{})
	s.Require().NoError(err)
	s.Len(listings, 3)
	for _, l := range listings {
		s.Equal(donation.ListingAvailable, l.Status)
	}
}

func (s *SeederSuite) TestSeedTwiceConflicts() {
	ctx := context.Background()
	seeder := New(s.users, s.donations, s.tokens, nil)
	_, err := seeder.SeedAll(ctx)
	s.Require().NoError(err)

	_, err = seeder.SeedAll(ctx)
	s.Error(err)
}
