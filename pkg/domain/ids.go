// Package domain provides type-safe identifiers to prevent mixing up IDs at compile time.
package domain

import (
	"github.com/google/uuid"

	dErrors "foodlink/pkg/domain-errors"
)

// Distinct ID types - compiler prevents passing a NeedID where a ListingID is expected.
type (
	UserID         uuid.UUID
	ListingID      uuid.UUID
	NeedID         uuid.UUID
	NotificationID uuid.UUID
)

// New constructors generate random (v4) identifiers.

func NewUserID() UserID                 { return UserID(uuid.New()) }
func NewListingID() ListingID           { return ListingID(uuid.New()) }
func NewNeedID() NeedID                 { return NeedID(uuid.New()) }
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

// Parse functions - use at trust boundaries (handlers, token claims, store rows).

func ParseUserID(s string) (UserID, error) {
	id, err := parseUUID(s, "user ID")
	return UserID(id), err
}

func ParseListingID(s string) (ListingID, error) {
	id, err := parseUUID(s, "listing ID")
	return ListingID(id), err
}

func ParseNeedID(s string) (NeedID, error) {
	id, err := parseUUID(s, "need ID")
	return NeedID(id), err
}

func ParseNotificationID(s string) (NotificationID, error) {
	id, err := parseUUID(s, "notification ID")
	return NotificationID(id), err
}

func (id UserID) String() string         { return uuid.UUID(id).String() }
func (id ListingID) String() string      { return uuid.UUID(id).String() }
func (id NeedID) String() string         { return uuid.UUID(id).String() }
func (id NotificationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ListingID) IsNil() bool      { return uuid.UUID(id) == uuid.Nil }
func (id NeedID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// parseUUID is the shared validation logic. The nil UUID is rejected so a
// zero value never reaches a store lookup.
func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "invalid "+label+" format")
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" cannot be nil")
	}
	return id, nil
}

// Text marshaling keeps IDs readable in JSON and logs.

func (id UserID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id ListingID) MarshalText() ([]byte, error)      { return []byte(id.String()), nil }
func (id NeedID) MarshalText() ([]byte, error)         { return []byte(id.String()), nil }
func (id NotificationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *UserID) UnmarshalText(b []byte) (err error) {
	*id, err = ParseUserID(string(b))
	return err
}

func (id *ListingID) UnmarshalText(b []byte) (err error) {
	*id, err = ParseListingID(string(b))
	return err
}

func (id *NeedID) UnmarshalText(b []byte) (err error) {
	*id, err = ParseNeedID(string(b))
	return err
}

func (id *NotificationID) UnmarshalText(b []byte) (err error) {
	*id, err = ParseNotificationID(string(b))
	return err
}
