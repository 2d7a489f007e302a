package adapters

import (
	"context"

	"foodlink/internal/matching/models"
	"foodlink/internal/matching/ports"
	notification "foodlink/internal/notification/models"
	id "foodlink/pkg/domain"
)

// notificationCreator is the slice of the notification service the engine writes through.
type notificationCreator interface {
	CreateNotification(ctx context.Context, recipientID id.UserID, message string, typ notification.Type, priority notification.Priority, refs notification.Refs) (*notification.Notification, error)
}

// NotificationAdapter implements ports.Notifier on top of the notification service.
type NotificationAdapter struct {
	notifications notificationCreator
}

func NewNotificationAdapter(svc notificationCreator) ports.Notifier {
	return &NotificationAdapter{notifications: svc}
}

func (a *NotificationAdapter) Notify(ctx context.Context, notice models.Notice) error {
	_, err := a.notifications.CreateNotification(ctx,
		notice.RecipientID,
		notice.Message,
		mapType(notice.Type),
		mapPriority(notice.Priority),
		notification.Refs{ListingID: notice.ListingID, NeedID: notice.NeedID},
	)
	return err
}

func mapType(t models.NoticeType) notification.Type {
	if t == models.NoticeSuccess {
		return notification.TypeSuccess
	}
	return notification.TypeInfo
}

func mapPriority(p models.Priority) notification.Priority {
	if p == models.PriorityHigh {
		return notification.PriorityHigh
	}
	return notification.PriorityNormal
}
