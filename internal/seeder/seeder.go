package seeder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	donation "foodlink/internal/donation/models"
	usermodels "foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/geo"
)

// UserStore defines methods for seeding users
type UserStore interface {
	Create(ctx context.Context, u *usermodels.User) error
}

// DonationStore defines methods for seeding listings and needs
type DonationStore interface {
	CreateListing(ctx context.Context, l *donation.Listing) error
	CreateNeed(ctx context.Context, n *donation.Need) error
}

// TokenIssuer signs dev access tokens for the seeded accounts.
type TokenIssuer interface {
	Issue(userID id.UserID, role string) (string, error)
}

// Account is a seeded user together with a token that authenticates as it.
type Account struct {
	User  *usermodels.User
	Token string
}

// Seeder populates stores with demo data around Lagos.
type Seeder struct {
	users     UserStore
	donations DonationStore
	tokens    TokenIssuer
	logger    *slog.Logger
	now       func() time.Time
}

func New(users UserStore, donations DonationStore, tokens TokenIssuer, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Seeder{
		users:     users,
		donations: donations,
		tokens:    tokens,
		logger:    logger,
		now:       time.Now,
	}
}

// SeedAll writes demo accounts, open needs and available listings. Records
// go straight to the stores, so no match notifications are produced.
func (s *Seeder) SeedAll(ctx context.Context) ([]Account, error) {
	s.logger.InfoContext(ctx, "seeding demo data...")

	accounts, err := s.seedUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to seed users: %w", err)
	}
	if err := s.seedNeeds(ctx, accounts); err != nil {
		return nil, fmt.Errorf("failed to seed needs: %w", err)
	}
	if err := s.seedListings(ctx, accounts); err != nil {
		return nil, fmt.Errorf("failed to seed listings: %w", err)
	}

	for _, a := range accounts {
		s.logger.InfoContext(ctx, "demo account",
			"name", a.User.Name,
			"role", a.User.Role,
			"user_id", a.User.ID,
			"token", a.Token,
		)
	}
	s.logger.InfoContext(ctx, "demo data seeded successfully", "users", len(accounts))
	return accounts, nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]Account, error) {
	demoUsers := []struct {
		name  string
		email string
		role  usermodels.Role
	}{
		{"Mama Put Kitchen", "kitchen@example.com", usermodels.RoleDonor},
		{"Yaba Bakery", "bakery@example.com", usermodels.RoleDonor},
		{"Ikeja Farm Market", "market@example.com", usermodels.RoleDonor},
		{"Hope Shelter", "hope@example.org", usermodels.RoleNGO},
		{"Makoko Food Bank", "foodbank@example.org", usermodels.RoleNGO},
	}

	now := s.now().UTC()
	accounts := make([]Account, 0, len(demoUsers))
	for _, d := range demoUsers {
		u, err := usermodels.NewUser(id.NewUserID(), d.name, d.email, d.role, now)
		if err != nil {
			return nil, err
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
		token, err := s.tokens.Issue(u.ID, string(u.Role))
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, Account{User: u, Token: token})
	}
	return accounts, nil
}

func (s *Seeder) seedNeeds(ctx context.Context, accounts []Account) error {
	now := s.now().UTC()
	needs := []struct {
		ngo        int
		title      string
		category   donation.Category
		quantity   int
		at         geo.Point
		urgency    donation.Urgency
		perishable bool
	}{
		{3, "Dinner for 40 residents", donation.CategoryCooked, 40, geo.Point{Lat: 6.5095, Lng: 3.3711}, donation.UrgencyImmediate, true},
		{3, "Breakfast bread", donation.CategoryBakery, 60, geo.Point{Lat: 6.5095, Lng: 3.3711}, donation.UrgencyStandard, false},
		{4, "Weekly produce", donation.CategoryRaw, 100, geo.Point{Lat: 6.4969, Lng: 3.3903}, donation.UrgencyUrgent, true},
	}

	for i, n := range needs {
		owner := accounts[n.ngo].User
		need, err := donation.NewNeed(id.NewNeedID(), donation.Owner{ID: owner.ID, Name: owner.Name},
			n.title, n.category, n.quantity, n.at, n.urgency, n.perishable,
			now.Add(time.Duration(i)*time.Second))
		if err != nil {
			return err
		}
		if err := s.donations.CreateNeed(ctx, need); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) seedListings(ctx context.Context, accounts []Account) error {
	now := s.now().UTC()
	listings := []struct {
		donor    int
		title    string
		category donation.Category
		quantity int
		at       geo.Point
		fresh    bool
	}{
		{0, "Jollof rice trays", donation.CategoryCooked, 25, geo.Point{Lat: 6.5244, Lng: 3.3792}, true},
		{1, "Day-old agege bread", donation.CategoryBakery, 80, geo.Point{Lat: 6.5158, Lng: 3.3841}, false},
		{2, "Tomatoes and peppers", donation.CategoryRaw, 50, geo.Point{Lat: 6.6018, Lng: 3.3515}, false},
	}

	for i, l := range listings {
		owner := accounts[l.donor].User
		listing, err := donation.NewListing(id.NewListingID(), donation.Owner{ID: owner.ID, Name: owner.Name},
			l.title, l.category, l.quantity, l.at, l.fresh,
			now.Add(time.Duration(i)*time.Second))
		if err != nil {
			return err
		}
		if err := s.donations.CreateListing(ctx, listing); err != nil {
			return err
		}
	}
	return nil
}
