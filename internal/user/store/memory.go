package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// InMemory stores users in memory for the demo environment.
type InMemory struct {
	mu       sync.RWMutex
	users    map[id.UserID]*models.User
	emailIdx map[string]id.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:    make(map[id.UserID]*models.User),
		emailIdx: make(map[string]id.UserID),
	}
}

// Create fails with sentinel.ErrAlreadyUsed when the id or email is taken.
func (s *InMemory) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[u.ID]; exists {
		return fmt.Errorf("user id must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	if _, exists := s.emailIdx[u.Email]; exists {
		return fmt.Errorf("user email must be unique: %w", sentinel.ErrAlreadyUsed)
	}
	cp := *u
	s.users[u.ID] = &cp
	s.emailIdx[u.Email] = u.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.emailIdx[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[userID]
	return &cp, nil
}

// Ban writes the ban fields unconditionally.
func (s *InMemory) Ban(_ context.Context, userID id.UserID, reason string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return sentinel.ErrNotFound
	}
	u.Ban(reason, at)
	return nil
}
