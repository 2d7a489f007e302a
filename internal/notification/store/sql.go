package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"foodlink/internal/notification/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

type SQLStore struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type notificationRow struct {
	ID          string    `db:"id"`
	RecipientID string    `db:"recipient_id"`
	Message     string    `db:"message"`
	Type        string    `db:"type"`
	Priority    string    `db:"priority"`
	ListingID   string    `db:"listing_id"`
	NeedID      string    `db:"need_id"`
	Read        bool      `db:"is_read"`
	CreatedAt   time.Time `db:"created_at"`
}

// refString stores nil references as "".
func refString(u uuid.UUID) string {
	if u == uuid.Nil {
		return ""
	}
	return u.String()
}

func parseRef(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}

func (r notificationRow) toModel() (*models.Notification, error) {
	notificationID, err := id.ParseNotificationID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("scan notification: %w", err)
	}
	recipientID, err := id.ParseUserID(r.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("scan notification recipient: %w", err)
	}
	listingID, err := parseRef(r.ListingID)
	if err != nil {
		return nil, fmt.Errorf("scan notification listing: %w", err)
	}
	needID, err := parseRef(r.NeedID)
	if err != nil {
		return nil, fmt.Errorf("scan notification need: %w", err)
	}
	return &models.Notification{
		ID:          notificationID,
		RecipientID: recipientID,
		Message:     r.Message,
		Type:        models.Type(r.Type),
		Priority:    models.Priority(r.Priority),
		Refs:        models.Refs{ListingID: id.ListingID(listingID), NeedID: id.NeedID(needID)},
		Read:        r.Read,
		CreatedAt:   r.CreatedAt.UTC(),
	}, nil
}

func (s *SQLStore) Create(ctx context.Context, n *models.Notification) error {
	query := s.db.Rebind(`
		INSERT INTO notifications (id, recipient_id, message, type, priority, listing_id, need_id, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, query,
		n.ID.String(),
		n.RecipientID.String(),
		n.Message,
		string(n.Type),
		string(n.Priority),
		refString(uuid.UUID(n.Refs.ListingID)),
		refString(uuid.UUID(n.Refs.NeedID)),
		n.Read,
		n.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *SQLStore) ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool) ([]*models.Notification, error) {
	query := `
		SELECT id, recipient_id, message, type, priority, listing_id, need_id, is_read, created_at
		FROM notifications
		WHERE recipient_id = ?`
	args := []any{recipientID.String()}
	if unreadOnly {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	var rows []notificationRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	out := make([]*models.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *SQLStore) MarkRead(ctx context.Context, recipientID id.UserID, notificationID id.NotificationID) error {
	query := s.db.Rebind(`UPDATE notifications SET is_read = ? WHERE id = ? AND recipient_id = ?`)
	res, err := s.db.ExecContext(ctx, query, true, notificationID.String(), recipientID.String())
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
