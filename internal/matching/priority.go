package matching

import (
	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/models"
	id "foodlink/pkg/domain"
)

const highPriorityPrefix = "[High priority] "

// ClassifyPriority marks a pair high when the listing is fresh, the need is
// perishable, or the need is Immediate.
func ClassifyPriority(listing *donation.Listing, need *donation.Need) models.Priority {
	if listing.IsFresh || need.IsPerishable || need.Urgency == donation.UrgencyImmediate {
		return models.PriorityHigh
	}
	return models.PriorityNormal
}

// notices builds the NGO-facing and donor-facing notifications of a match, in that order.
func notices(listing *donation.Listing, need *donation.Need, priority models.Priority) [2]models.Notice {
	ngoMsg := "A nearby donation matches your request for " + need.Title
	donorMsg := "Your donation " + listing.Title + " matches a nearby NGO request"
	ngoType, donorType := models.NoticeSuccess, models.NoticeInfo
	if priority == models.PriorityHigh {
		ngoMsg = highPriorityPrefix + ngoMsg
		donorMsg = highPriorityPrefix + donorMsg
		donorType = models.NoticeSuccess
	}
	return [2]models.Notice{
		{
			RecipientID: ngoOf(need),
			Message:     ngoMsg,
			Type:        ngoType,
			Priority:    priority,
			ListingID:   listing.ID,
			NeedID:      need.ID,
		},
		{
			RecipientID: donorOf(listing),
			Message:     donorMsg,
			Type:        donorType,
			Priority:    priority,
			ListingID:   listing.ID,
			NeedID:      need.ID,
		},
	}
}

func ngoOf(need *donation.Need) id.UserID {
	if need.NGO.ID.IsNil() {
		return need.NGOID
	}
	return need.NGO.ID
}

func donorOf(listing *donation.Listing) id.UserID {
	if listing.Donor.ID.IsNil() {
		return listing.DonorID
	}
	return listing.Donor.ID
}
