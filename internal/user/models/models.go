package models

import (
	"net/mail"
	"strings"
	"time"

	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
)

type Role string

const (
	RoleDonor Role = "donor"
	RoleNGO   Role = "ngo"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleDonor:
		return RoleDonor, nil
	case RoleNGO:
		return RoleNGO, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "role must be donor or ngo")
}

// User is a donor or NGO account. BannedAt is nil until the first ban.
type User struct {
	ID        id.UserID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Banned    bool       `json:"banned"`
	BanReason string     `json:"ban_reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func NewUser(userID id.UserID, name, email string, role Role, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "user id is required")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "name cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "email is not a valid address")
	}
	if role != RoleDonor && role != RoleNGO {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "role must be donor or ngo")
	}
	return &User{
		ID:        userID,
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
	}, nil
}

// Ban marks the account suspended. Banning again overwrites reason and time.
func (u *User) Ban(reason string, at time.Time) {
	u.Banned = true
	u.BanReason = reason
	u.BannedAt = &at
}

func (u *User) IsDonor() bool { return u.Role == RoleDonor }
func (u *User) IsNGO() bool   { return u.Role == RoleNGO }
