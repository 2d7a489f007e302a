package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/platform/privacy"
	"foodlink/pkg/platform/sentinel"
	"foodlink/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error
}

// RegisterCommand provisions an account for an identity issued elsewhere.
type RegisterCommand struct {
	ID    id.UserID
	Name  string
	Email string
	Role  models.Role
}

// Service manages donor and NGO accounts.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(store Store, opts ...Option) *Service {
	if store == nil {
		panic("user service: store is required")
	}
	s := &Service{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return u, nil
}

func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	u, err := models.NewUser(cmd.ID, cmd.Name, cmd.Email, cmd.Role, s.now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "user id or email already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	s.logger.InfoContext(ctx, "user registered",
		"user_id", u.ID,
		"role", u.Role,
		"email", privacy.MaskEmail(u.Email),
		"request_id", requestcontext.RequestID(ctx),
	)
	return u, nil
}

// Ban suspends the account. Banning a banned user rewrites reason and time.
func (s *Service) Ban(ctx context.Context, userID id.UserID, reason string, at time.Time) error {
	if err := s.store.Ban(ctx, userID, reason, at); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to ban user")
	}
	s.logger.InfoContext(ctx, "user banned",
		"user_id", userID,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil
}
