// Package ports defines the collaborators the matching engine calls.
package ports

import (
	"context"

	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/models"
	id "foodlink/pkg/domain"
)

// NeedFinder returns Open needs of a category with the NGO owner resolved,
// in the order notifications should be sent.
type NeedFinder interface {
	FindOpenNeeds(ctx context.Context, category donation.Category) ([]*donation.Need, error)
}

// ListingFinder returns Available listings of a category with the donor resolved.
type ListingFinder interface {
	FindAvailableListings(ctx context.Context, category donation.Category) ([]*donation.Listing, error)
}

// Notifier persists one notification.
type Notifier interface {
	Notify(ctx context.Context, notice models.Notice) error
}

// PairGuard claims a listing/need pair. false means the pair was already
// notified and must be skipped.
type PairGuard interface {
	Claim(ctx context.Context, listingID id.ListingID, needID id.NeedID) (bool, error)
}
