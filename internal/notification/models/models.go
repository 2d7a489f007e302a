package models

import (
	"strings"
	"time"

	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
)

// Type is the severity tag shown with a notification.
type Type string

const (
	TypeInfo    Type = "Info"
	TypeSuccess Type = "Success"
	TypeAlert   Type = "Alert"
	TypeWarning Type = "Warning"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeInfo, TypeSuccess, TypeAlert, TypeWarning:
		return true
	}
	return false
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// Refs links a notification to the records that caused it. Either id may be nil.
type Refs struct {
	ListingID id.ListingID
	NeedID    id.NeedID
}

type Notification struct {
	ID          id.NotificationID
	RecipientID id.UserID
	Message     string
	Type        Type
	Priority    Priority
	Refs        Refs
	Read        bool
	CreatedAt   time.Time
}

// New builds an unread notification. An empty priority defaults to normal.
func New(notificationID id.NotificationID, recipientID id.UserID, message string, typ Type, priority Priority, refs Refs, now time.Time) (*Notification, error) {
	message = strings.TrimSpace(message)
	if recipientID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "notification recipient is required")
	}
	if message == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "notification message cannot be empty")
	}
	if !typ.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown notification type "+string(typ))
	}
	if priority == "" {
		priority = PriorityNormal
	}
	return &Notification{
		ID:          notificationID,
		RecipientID: recipientID,
		Message:     message,
		Type:        typ,
		Priority:    priority,
		Refs:        refs,
		CreatedAt:   now,
	}, nil
}
