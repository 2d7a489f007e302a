package models

import (
	"strings"

	dErrors "foodlink/pkg/domain-errors"
)

// Category is shared by listings and needs; matching never crosses categories.
type Category string

const (
	CategoryCooked Category = "Cooked"
	CategoryRaw    Category = "Raw"
	CategoryBakery Category = "Bakery"
)

// ParseCategory accepts any letter case.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cooked":
		return CategoryCooked, nil
	case "raw":
		return CategoryRaw, nil
	case "bakery":
		return CategoryBakery, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "category must be one of Cooked, Raw, Bakery")
}

type Urgency string

const (
	UrgencyStandard  Urgency = "Standard"
	UrgencyUrgent    Urgency = "Urgent"
	UrgencyImmediate Urgency = "Immediate"
)

// ParseUrgency defaults an empty value to Standard.
func ParseUrgency(s string) (Urgency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return UrgencyStandard, nil
	case "urgent":
		return UrgencyUrgent, nil
	case "immediate":
		return UrgencyImmediate, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "urgency must be one of Standard, Urgent, Immediate")
}

type ListingStatus string

const (
	ListingAvailable ListingStatus = "Available"
	ListingClaimed   ListingStatus = "Claimed"
	ListingInTransit ListingStatus = "In Transit"
	ListingDelivered ListingStatus = "Delivered"
	ListingCancelled ListingStatus = "Cancelled"
)

var listingTransitions = map[ListingStatus][]ListingStatus{
	ListingAvailable: {ListingClaimed, ListingCancelled},
	ListingClaimed:   {ListingInTransit, ListingCancelled},
	ListingInTransit: {ListingDelivered, ListingCancelled},
}

func ParseListingStatus(s string) (ListingStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "available":
		return ListingAvailable, nil
	case "claimed":
		return ListingClaimed, nil
	case "in transit", "in_transit":
		return ListingInTransit, nil
	case "delivered":
		return ListingDelivered, nil
	case "cancelled":
		return ListingCancelled, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown listing status")
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	for _, allowed := range listingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Handoff statuses may also be set by the receiving NGO.
func (s ListingStatus) IsHandoff() bool {
	return s == ListingClaimed || s == ListingInTransit || s == ListingDelivered
}

type NeedStatus string

const (
	NeedOpen      NeedStatus = "Open"
	NeedFulfilled NeedStatus = "Fulfilled"
	NeedCancelled NeedStatus = "Cancelled"
)

func ParseNeedStatus(s string) (NeedStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return NeedOpen, nil
	case "fulfilled":
		return NeedFulfilled, nil
	case "cancelled":
		return NeedCancelled, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown need status")
}

func (s NeedStatus) CanTransitionTo(next NeedStatus) bool {
	return s == NeedOpen && (next == NeedFulfilled || next == NeedCancelled)
}
