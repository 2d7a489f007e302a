package models

import (
	"strings"
	"time"

	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/geo"
)

const (
	MaxTitleLength = 200
	MinRating      = 1.0
	MaxRating      = 5.0
)

// Owner is the resolved identity of the user behind a listing or need.
type Owner struct {
	ID   id.UserID `json:"id"`
	Name string    `json:"name"`
}

// Listing is a donor-posted unit of surplus food. Rating 0 means unrated.
type Listing struct {
	ID        id.ListingID  `json:"id"`
	DonorID   id.UserID     `json:"donor_id"`
	Donor     Owner         `json:"donor"`
	Title     string        `json:"title"`
	Category  Category      `json:"category"`
	Quantity  int           `json:"quantity"`
	Location  geo.Point     `json:"location"`
	IsFresh   bool          `json:"is_fresh"`
	Status    ListingStatus `json:"status"`
	Rating    float64       `json:"rating"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewListing builds an Available listing owned by donor.
func NewListing(listingID id.ListingID, donor Owner, title string, category Category, quantity int, location geo.Point, isFresh bool, now time.Time) (*Listing, error) {
	title = strings.TrimSpace(title)
	if err := validateTitleAndQuantity(title, quantity); err != nil {
		return nil, err
	}
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "listing category is required")
	}
	return &Listing{
		ID:        listingID,
		DonorID:   donor.ID,
		Donor:     donor,
		Title:     title,
		Category:  category,
		Quantity:  quantity,
		Location:  location,
		IsFresh:   isFresh,
		Status:    ListingAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// TransitionTo moves the listing through its lifecycle.
func (l *Listing) TransitionTo(next ListingStatus, now time.Time) error {
	if !l.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"listing cannot move from "+string(l.Status)+" to "+string(next))
	}
	l.Status = next
	l.UpdatedAt = now
	return nil
}

// Rate records a 1-5 rating on a delivered listing. Re-rating overwrites.
func (l *Listing) Rate(rating float64, now time.Time) error {
	if l.Status != ListingDelivered {
		return dErrors.New(dErrors.CodeInvariantViolation, "only delivered listings can be rated")
	}
	if rating < MinRating || rating > MaxRating {
		return dErrors.New(dErrors.CodeValidation, "rating must be between 1 and 5")
	}
	l.Rating = rating
	l.UpdatedAt = now
	return nil
}

func (l *Listing) IsRated() bool {
	return l.Rating > 0
}

// Need is an NGO-posted request for food of one category.
type Need struct {
	ID           id.NeedID  `json:"id"`
	NGOID        id.UserID  `json:"ngo_id"`
	NGO          Owner      `json:"ngo"`
	Title        string     `json:"title"`
	Category     Category   `json:"category"`
	Quantity     int        `json:"quantity"`
	Location     geo.Point  `json:"location"`
	Urgency      Urgency    `json:"urgency"`
	IsPerishable bool       `json:"is_perishable"`
	Status       NeedStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewNeed builds an Open need owned by ngo.
func NewNeed(needID id.NeedID, ngo Owner, title string, category Category, quantity int, location geo.Point, urgency Urgency, isPerishable bool, now time.Time) (*Need, error) {
	title = strings.TrimSpace(title)
	if err := validateTitleAndQuantity(title, quantity); err != nil {
		return nil, err
	}
	if category == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "need category is required")
	}
	if urgency == "" {
		urgency = UrgencyStandard
	}
	return &Need{
		ID:           needID,
		NGOID:        ngo.ID,
		NGO:          ngo,
		Title:        title,
		Category:     category,
		Quantity:     quantity,
		Location:     location,
		Urgency:      urgency,
		IsPerishable: isPerishable,
		Status:       NeedOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (n *Need) TransitionTo(next NeedStatus, now time.Time) error {
	if !n.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			"need cannot move from "+string(n.Status)+" to "+string(next))
	}
	n.Status = next
	n.UpdatedAt = now
	return nil
}

func validateTitleAndQuantity(title string, quantity int) error {
	if title == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "title cannot be empty")
	}
	if len(title) > MaxTitleLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "title must be 200 characters or less")
	}
	if quantity <= 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, "quantity must be positive")
	}
	return nil
}

// ListingFilter narrows ListListings. Zero values match everything.
type ListingFilter struct {
	DonorID  id.UserID
	Category Category
	Status   ListingStatus
}

// NeedFilter narrows ListNeeds. Zero values match everything.
type NeedFilter struct {
	NGOID    id.UserID
	Category Category
	Status   NeedStatus
}
