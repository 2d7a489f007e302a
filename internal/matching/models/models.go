package models

import (
	id "foodlink/pkg/domain"
)

// Priority is shared by both notifications of a match.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// NoticeType is the severity tag carried by a match notification.
type NoticeType string

const (
	NoticeInfo    NoticeType = "Info"
	NoticeSuccess NoticeType = "Success"
)

// Match is one listing/need pair within the radius.
type Match struct {
	ListingID  id.ListingID
	NeedID     id.NeedID
	DonorID    id.UserID
	NGOID      id.UserID
	DistanceKm float64
	Priority   Priority
}

// Notice is a notification the engine asks the Notifier to persist.
type Notice struct {
	RecipientID id.UserID
	Message     string
	Type        NoticeType
	Priority    Priority
	ListingID   id.ListingID
	NeedID      id.NeedID
}

// Result describes one matching run. A lookup failure leaves Matches empty
// and LookupErr set; it is never returned as an error.
type Result struct {
	Matches []Match
	// Notified counts notices persisted, two per fully delivered match.
	Notified       int
	NotifyFailures int
	// Suppressed counts matches skipped by the pair guard.
	Suppressed int
	LookupErr  error
}

// Count is the number of matches found.
func (r Result) Count() int {
	return len(r.Matches)
}
