package adapters

import (
	"context"

	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/models"
)

type engine interface {
	MatchForNewListing(ctx context.Context, listing *donation.Listing) models.Result
	MatchForNewNeed(ctx context.Context, need *donation.Need) models.Result
}

// DonationMatcher exposes the engine to the donation service, which only
// needs the match count.
type DonationMatcher struct {
	engine engine
}

func NewDonationMatcher(e engine) *DonationMatcher {
	return &DonationMatcher{engine: e}
}

func (m *DonationMatcher) MatchForNewListing(ctx context.Context, l *donation.Listing) int {
	return m.engine.MatchForNewListing(ctx, l).Count()
}

func (m *DonationMatcher) MatchForNewNeed(ctx context.Context, n *donation.Need) int {
	return m.engine.MatchForNewNeed(ctx, n).Count()
}
