package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"foodlink/internal/notification/models"
	"foodlink/internal/platform/events"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/platform/sentinel"
	"foodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, recipientID id.UserID, notificationID id.NotificationID) error
}

// Service creates notifications and serves each user's feed.
type Service struct {
	store  Store
	events events.Publisher
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithEvents publishes notification.created after each persisted notification.
func WithEvents(p events.Publisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("notification service: store is required")
	}
	s := &Service{store: store, events: events.Noop{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// CreatedPayload is the payload of a notification.created event.
type CreatedPayload struct {
	NotificationID id.NotificationID `json:"notification_id"`
	RecipientID    id.UserID         `json:"recipient_id"`
	Type           models.Type       `json:"type"`
	Priority       models.Priority   `json:"priority"`
	Message        string            `json:"message"`
}

// CreateNotification persists an unread notification, then publishes it.
// A publish failure is logged and does not fail the call.
func (s *Service) CreateNotification(ctx context.Context, recipientID id.UserID, message string, typ models.Type, priority models.Priority, refs models.Refs) (*models.Notification, error) {
	n, err := models.New(id.NewNotificationID(), recipientID, message, typ, priority, refs, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, n); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist notification")
	}

	err = s.events.Publish(ctx, events.Event{
		Type: events.TypeNotificationCreated,
		Key:  recipientID.String(),
		Payload: CreatedPayload{
			NotificationID: n.ID,
			RecipientID:    recipientID,
			Type:           n.Type,
			Priority:       n.Priority,
			Message:        n.Message,
		},
	})
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish notification event",
			"notification_id", n.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID id.UserID, unreadOnly bool) ([]*models.Notification, error) {
	out, err := s.store.ListByRecipient(ctx, userID, unreadOnly)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list notifications")
	}
	return out, nil
}

// MarkRead only succeeds for the notification's own recipient.
func (s *Service) MarkRead(ctx context.Context, userID id.UserID, notificationID id.NotificationID) error {
	if err := s.store.MarkRead(ctx, userID, notificationID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark notification read")
	}
	return nil
}
