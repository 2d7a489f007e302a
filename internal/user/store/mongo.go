package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	platformmongo "foodlink/internal/platform/mongo"
	"foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// MongoStore keeps one document per user, keyed by the string form of the id.
type MongoStore struct {
	users *mongo.Collection
}

func NewMongo(db *mongo.Database) *MongoStore {
	return &MongoStore{users: db.Collection(platformmongo.CollectionUsers)}
}

// EnsureIndexes creates the unique email index.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}
	return nil
}

type userDoc struct {
	ID        string     `bson:"_id"`
	Name      string     `bson:"name"`
	Email     string     `bson:"email"`
	Role      string     `bson:"role"`
	Banned    bool       `bson:"banned"`
	BanReason string     `bson:"ban_reason"`
	BannedAt  *time.Time `bson:"banned_at,omitempty"`
	CreatedAt time.Time  `bson:"created_at"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Banned:    u.Banned,
		BanReason: u.BanReason,
		BannedAt:  u.BannedAt,
		CreatedAt: u.CreatedAt,
	}
}

func (d userDoc) toModel() (*models.User, error) {
	userID, err := id.ParseUserID(d.ID)
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	u := &models.User{
		ID:        userID,
		Name:      d.Name,
		Email:     d.Email,
		Role:      models.Role(d.Role),
		Banned:    d.Banned,
		BanReason: d.BanReason,
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.BannedAt != nil {
		at := d.BannedAt.UTC()
		u.BannedAt = &at
	}
	return u, nil
}

func (s *MongoStore) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	if _, err := s.users.InsertOne(ctx, toUserDoc(u)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user id and email must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, "find user by id", bson.M{"_id": userID.String()})
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find user by email", bson.M{"email": email})
}

func (s *MongoStore) findOne(ctx context.Context, op string, filter bson.M) (*models.User, error) {
	var doc userDoc
	if err := s.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return doc.toModel()
}

func (s *MongoStore) Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error {
	res, err := s.users.UpdateByID(ctx, userID.String(), bson.M{"$set": bson.M{
		"banned":     true,
		"ban_reason": reason,
		"banned_at":  at.UTC(),
	}})
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	if res.MatchedCount == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
