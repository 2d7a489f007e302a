package adapters

import (
	"context"

	"foodlink/internal/reputation/models"
	id "foodlink/pkg/domain"
)

type banEvaluator interface {
	EvaluateBan(ctx context.Context, donorID id.UserID) models.Outcome
}

// DonationEvaluator lets the donation service trigger the monitor after a
// rating without depending on reputation models.
type DonationEvaluator struct {
	monitor banEvaluator
}

func NewDonationEvaluator(m banEvaluator) *DonationEvaluator {
	return &DonationEvaluator{monitor: m}
}

// EvaluateBan reports whether the verdict was a ban. A ban whose write failed
// still reports true.
func (a *DonationEvaluator) EvaluateBan(ctx context.Context, donorID id.UserID) bool {
	return a.monitor.EvaluateBan(ctx, donorID).Banned()
}
