package models

import (
	"time"

	id "foodlink/pkg/domain"
)

// Reason is recorded on the user when a ban is applied.
type Reason string

const (
	ReasonLowAverage     Reason = "Low Average Rating"
	ReasonConsecutiveLow Reason = "Consecutive Low Ratings"
)

// Decision is the outcome of the ban rules over a donor's rated deliveries.
// Average is nil when the donor has no rated delivery.
type Decision struct {
	Ban     bool
	Reason  Reason
	Average *float64
	Recent  []float64
}

// Verdict is either Decided or Indeterminate.
type Verdict interface {
	isVerdict()
}

// Decided carries a decision reached over complete data.
type Decided struct {
	Decision Decision
}

// Indeterminate means the ratings could not be read. It never bans.
type Indeterminate struct {
	Err error
}

func (Decided) isVerdict()       {}
func (Indeterminate) isVerdict() {}

// ShouldBan collapses a verdict to a ban flag.
func ShouldBan(v Verdict) bool {
	d, ok := v.(Decided)
	return ok && d.Decision.Ban
}

// ReasonOf returns the ban reason of a Decided verdict, or "" otherwise.
func ReasonOf(v Verdict) Reason {
	if d, ok := v.(Decided); ok {
		return d.Decision.Reason
	}
	return ""
}

// Outcome reports one EvaluateBan call. Applied is true when the ban write
// succeeded; ApplyErr holds the write failure, which is never returned.
type Outcome struct {
	DonorID   id.UserID
	Verdict   Verdict
	Applied   bool
	ApplyErr  error
	Evaluated time.Time
}

// Banned reports whether the verdict called for a ban.
func (o Outcome) Banned() bool {
	return ShouldBan(o.Verdict)
}
