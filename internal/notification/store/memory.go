package store

import (
	"context"
	"sort"
	"sync"

	"foodlink/internal/notification/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// InMemory keeps notifications grouped by recipient.
type InMemory struct {
	mu          sync.RWMutex
	byRecipient map[id.UserID][]*models.Notification
}

func NewInMemory() *InMemory {
	return &InMemory{byRecipient: make(map[id.UserID][]*models.Notification)}
}

func (s *InMemory) Create(_ context.Context, n *models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *n
	s.byRecipient[n.RecipientID] = append(s.byRecipient[n.RecipientID], &cp)
	return nil
}

// ListByRecipient returns newest first.
func (s *InMemory) ListByRecipient(_ context.Context, recipientID id.UserID, unreadOnly bool) ([]*models.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Notification, 0, len(s.byRecipient[recipientID]))
	for _, n := range s.byRecipient[recipientID] {
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// MarkRead returns sentinel.ErrNotFound unless the notification belongs to recipientID.
func (s *InMemory) MarkRead(_ context.Context, recipientID id.UserID, notificationID id.NotificationID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.byRecipient[recipientID] {
		if n.ID == notificationID {
			n.Read = true
			return nil
		}
	}
	return sentinel.ErrNotFound
}
