package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/models"
)

func TestClassifyPriority(t *testing.T) {
	cases := []struct {
		name       string
		fresh      bool
		perishable bool
		urgency    donation.Urgency
		want       models.Priority
	}{
		{"fresh listing", true, false, donation.UrgencyStandard, models.PriorityHigh},
		{"perishable need", false, true, donation.UrgencyStandard, models.PriorityHigh},
		{"immediate need", false, false, donation.UrgencyImmediate, models.PriorityHigh},
		{"urgent is not immediate", false, false, donation.UrgencyUrgent, models.PriorityNormal},
		{"nothing set", false, false, donation.UrgencyStandard, models.PriorityNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			listing := &donation.Listing{IsFresh: tc.fresh}
			need := &donation.Need{IsPerishable: tc.perishable, Urgency: tc.urgency}
			assert.Equal(t, tc.want, ClassifyPriority(listing, need))
		})
	}
}
