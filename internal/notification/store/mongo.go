package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"foodlink/internal/notification/models"
	platformmongo "foodlink/internal/platform/mongo"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

type MongoStore struct {
	notifications *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{notifications: db.Collection(platformmongo.CollectionNotifications)}
}

// EnsureIndexes creates the recipient feed index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.notifications.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create notifications index: %w", err)
	}
	return nil
}

type notificationDoc struct {
	ID          string    `bson:"_id"`
	RecipientID string    `bson:"recipient_id"`
	Message     string    `bson:"message"`
	Type        string    `bson:"type"`
	Priority    string    `bson:"priority"`
	ListingID   string    `bson:"listing_id,omitempty"`
	NeedID      string    `bson:"need_id,omitempty"`
	Read        bool      `bson:"read"`
	CreatedAt   time.Time `bson:"created_at"`
}

func (d notificationDoc) toModel() (*models.Notification, error) {
	row := notificationRow{
		ID:          d.ID,
		RecipientID: d.RecipientID,
		Message:     d.Message,
		Type:        d.Type,
		Priority:    d.Priority,
		ListingID:   d.ListingID,
		NeedID:      d.NeedID,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
	}
	return row.toModel()
}

func (s *MongoStore) Create(ctx context.Context, n *models.Notification) error {
	doc := notificationDoc{
		ID:          n.ID.String(),
		RecipientID: n.RecipientID.String(),
		Message:     n.Message,
		Type:        string(n.Type),
		Priority:    string(n.Priority),
		ListingID:   refString(uuid.UUID(n.Refs.ListingID)),
		NeedID:      refString(uuid.UUID(n.Refs.NeedID)),
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.UTC(),
	}
	if _, err := s.notifications.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

func (s *MongoStore) ListByRecipient(ctx context.Context, recipientID id.UserID, unreadOnly bool) ([]*models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID.String()}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cur, err := s.notifications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	var docs []notificationDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notifications: %w", err)
	}
	out := make([]*models.Notification, 0, len(docs))
	for _, d := range docs {
		n, err := d.toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *MongoStore) MarkRead(ctx context.Context, recipientID id.UserID, notificationID id.NotificationID) error {
	res, err := s.notifications.UpdateOne(ctx,
		bson.M{"_id": notificationID.String(), "recipient_id": recipientID.String()},
		bson.M{"$set": bson.M{"read": true}},
	)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
