package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"foodlink/internal/platform/database"
	"foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	"foodlink/pkg/platform/sentinel"
)

// SQLStore persists users through sqlx. Queries are written with ? placeholders
// and rebound for the connection's driver.
type SQLStore struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

type userRow struct {
	ID        string       `db:"id"`
	Name      string       `db:"name"`
	Email     string       `db:"email"`
	Role      string       `db:"role"`
	Banned    bool         `db:"banned"`
	BanReason string       `db:"ban_reason"`
	BannedAt  sql.NullTime `db:"banned_at"`
	CreatedAt time.Time    `db:"created_at"`
}

func (r userRow) toModel() (*models.User, error) {
	userID, err := id.ParseUserID(r.ID)
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u := &models.User{
		ID:        userID,
		Name:      r.Name,
		Email:     r.Email,
		Role:      models.Role(r.Role),
		Banned:    r.Banned,
		BanReason: r.BanReason,
		CreatedAt: r.CreatedAt.UTC(),
	}
	if r.BannedAt.Valid {
		at := r.BannedAt.Time.UTC()
		u.BannedAt = &at
	}
	return u, nil
}

const selectUser = `SELECT id, name, email, role, banned, ban_reason, banned_at, created_at FROM users`

func (s *SQLStore) Create(ctx context.Context, u *models.User) error {
	if u == nil {
		return fmt.Errorf("user is required")
	}
	query := s.db.Rebind(`
		INSERT INTO users (id, name, email, role, banned, ban_reason, banned_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	var bannedAt sql.NullTime
	if u.BannedAt != nil {
		bannedAt = sql.NullTime{Time: u.BannedAt.UTC(), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, query,
		u.ID.String(),
		u.Name,
		u.Email,
		string(u.Role),
		u.Banned,
		u.BanReason,
		bannedAt,
		u.CreatedAt.UTC(),
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("user id and email must be unique: %w", sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (s *SQLStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, "find user by id", selectUser+` WHERE id = ?`, userID.String())
}

func (s *SQLStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, "find user by email", selectUser+` WHERE email = ?`, email)
}

func (s *SQLStore) findOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	var row userRow
	if err := s.db.GetContext(ctx, &row, s.db.Rebind(query), arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return row.toModel()
}

func (s *SQLStore) Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error {
	query := s.db.Rebind(`UPDATE users SET banned = ?, ban_reason = ?, banned_at = ? WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, query, true, reason, at.UTC(), userID.String())
	if err != nil {
		return fmt.Errorf("ban user: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("ban user rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
