package store

import "time"

// newer orders by creation time, then by id, matching the SQL and mongo sorts.
func newer(a, b time.Time, aID, bID string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID > bID
}
