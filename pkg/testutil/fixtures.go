package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	donation "foodlink/internal/donation/models"
	usermodels "foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/geo"
)

// TestIDs provides convenient pre-generated IDs for tests.
var TestIDs = struct {
	DonorID1 id.UserID
	DonorID2 id.UserID
	NGOID1   id.UserID
	NGOID2   id.UserID
}{
	DonorID1: id.UserID(uuid.MustParse("11111111-1111-1111-1111-111111111111")),
	DonorID2: id.UserID(uuid.MustParse("22222222-2222-2222-2222-222222222222")),
	NGOID1:   id.UserID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000001")),
	NGOID2:   id.UserID(uuid.MustParse("aaaa0000-0000-0000-0000-000000000002")),
}

// Lagos is the default test location.
var Lagos = geo.Point{Lat: 6.5244, Lng: 3.3792}

// FixedTime is a second-aligned instant that survives every store's time precision.
var FixedTime = time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)

// UserBuilder provides a fluent interface for building test users.
type UserBuilder struct {
	user *usermodels.User
}

// NewUserBuilder defaults to an unbanned donor with a unique email.
func NewUserBuilder() *UserBuilder {
	userID := id.NewUserID()
	return &UserBuilder{
		user: &usermodels.User{
			ID:        userID,
			Name:      "Test Donor",
			Email:     fmt.Sprintf("donor-%s@example.com", userID.String()[:8]),
			Role:      usermodels.RoleDonor,
			CreatedAt: FixedTime,
		},
	}
}

func (b *UserBuilder) WithID(userID id.UserID) *UserBuilder {
	b.user.ID = userID
	return b
}

func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.user.Name = name
	return b
}

func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.user.Email = email
	return b
}

func (b *UserBuilder) NGO() *UserBuilder {
	b.user.Role = usermodels.RoleNGO
	b.user.Name = "Test NGO"
	return b
}

func (b *UserBuilder) Banned(reason string, at time.Time) *UserBuilder {
	b.user.Ban(reason, at)
	return b
}

func (b *UserBuilder) Build() *usermodels.User {
	return b.user
}

// ListingBuilder builds an Available Cooked listing at Lagos.
type ListingBuilder struct {
	listing *donation.Listing
}

func NewListingBuilder() *ListingBuilder {
	return &ListingBuilder{
		listing: &donation.Listing{
			ID:        id.NewListingID(),
			DonorID:   TestIDs.DonorID1,
			Donor:     donation.Owner{ID: TestIDs.DonorID1, Name: "Test Donor"},
			Title:     "Jollof rice trays",
			Category:  donation.CategoryCooked,
			Quantity:  10,
			Location:  Lagos,
			Status:    donation.ListingAvailable,
			CreatedAt: FixedTime,
			UpdatedAt: FixedTime,
		},
	}
}

func (b *ListingBuilder) WithID(listingID id.ListingID) *ListingBuilder {
	b.listing.ID = listingID
	return b
}

func (b *ListingBuilder) WithDonor(owner donation.Owner) *ListingBuilder {
	b.listing.DonorID = owner.ID
	b.listing.Donor = owner
	return b
}

func (b *ListingBuilder) WithTitle(title string) *ListingBuilder {
	b.listing.Title = title
	return b
}

func (b *ListingBuilder) WithCategory(c donation.Category) *ListingBuilder {
	b.listing.Category = c
	return b
}

func (b *ListingBuilder) WithLocation(p geo.Point) *ListingBuilder {
	b.listing.Location = p
	return b
}

func (b *ListingBuilder) Fresh() *ListingBuilder {
	b.listing.IsFresh = true
	return b
}

func (b *ListingBuilder) WithStatus(s donation.ListingStatus) *ListingBuilder {
	b.listing.Status = s
	return b
}

// Delivered marks the listing Delivered with the given rating (0 leaves it unrated).
func (b *ListingBuilder) Delivered(rating float64) *ListingBuilder {
	b.listing.Status = donation.ListingDelivered
	b.listing.Rating = rating
	return b
}

func (b *ListingBuilder) CreatedAt(t time.Time) *ListingBuilder {
	b.listing.CreatedAt = t
	b.listing.UpdatedAt = t
	return b
}

func (b *ListingBuilder) Build() *donation.Listing {
	return b.listing
}

// NeedBuilder builds an Open Standard Cooked need at Lagos.
type NeedBuilder struct {
	need *donation.Need
}

func NewNeedBuilder() *NeedBuilder {
	return &NeedBuilder{
		need: &donation.Need{
			ID:        id.NewNeedID(),
			NGOID:     TestIDs.NGOID1,
			NGO:       donation.Owner{ID: TestIDs.NGOID1, Name: "Test NGO"},
			Title:     "Evening meals",
			Category:  donation.CategoryCooked,
			Quantity:  25,
			Location:  Lagos,
			Urgency:   donation.UrgencyStandard,
			Status:    donation.NeedOpen,
			CreatedAt: FixedTime,
			UpdatedAt: FixedTime,
		},
	}
}

func (b *NeedBuilder) WithID(needID id.NeedID) *NeedBuilder {
	b.need.ID = needID
	return b
}

func (b *NeedBuilder) WithNGO(owner donation.Owner) *NeedBuilder {
	b.need.NGOID = owner.ID
	b.need.NGO = owner
	return b
}

func (b *NeedBuilder) WithTitle(title string) *NeedBuilder {
	b.need.Title = title
	return b
}

func (b *NeedBuilder) WithCategory(c donation.Category) *NeedBuilder {
	b.need.Category = c
	return b
}

func (b *NeedBuilder) WithLocation(p geo.Point) *NeedBuilder {
	b.need.Location = p
	return b
}

func (b *NeedBuilder) WithUrgency(u donation.Urgency) *NeedBuilder {
	b.need.Urgency = u
	return b
}

func (b *NeedBuilder) Perishable() *NeedBuilder {
	b.need.IsPerishable = true
	return b
}

func (b *NeedBuilder) WithStatus(s donation.NeedStatus) *NeedBuilder {
	b.need.Status = s
	return b
}

func (b *NeedBuilder) CreatedAt(t time.Time) *NeedBuilder {
	b.need.CreatedAt = t
	b.need.UpdatedAt = t
	return b
}

func (b *NeedBuilder) Build() *donation.Need {
	return b.need
}

// OwnerOf returns the resolved owner identity of a user.
func OwnerOf(u *usermodels.User) donation.Owner {
	return donation.Owner{ID: u.ID, Name: u.Name}
}
