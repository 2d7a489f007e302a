package ports

import (
	"context"
	"time"

	id "foodlink/pkg/domain"
)

// RatingsReader aggregates a donor's rated Delivered listings.
type RatingsReader interface {
	// AverageRating returns nil when the donor has no rated delivery.
	AverageRating(ctx context.Context, donorID id.UserID) (*float64, error)
	// RecentRatedDeliveries returns at most n ratings, newest listing first.
	RecentRatedDeliveries(ctx context.Context, donorID id.UserID, n int) ([]float64, error)
}

// UserBanner suspends an account. Re-banning a banned user rewrites the fields.
type UserBanner interface {
	Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error
}
