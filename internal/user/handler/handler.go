package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foodlink/internal/user/models"
	"foodlink/internal/user/service"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/platform/httputil"
	"foodlink/pkg/requestcontext"
)

// Service is the account surface the handler needs.
type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.User, error)
	Register(ctx context.Context, cmd service.RegisterCommand) (*models.User, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the routes. The router must already authenticate callers.
func (h *Handler) Register(r chi.Router) {
	r.Get("/users/me", h.HandleGetMe)
	r.Put("/users/me", h.HandleProvisionMe)
	r.Get("/users/{id}", h.HandleGetUser)
}

// HandleGetMe returns the caller's full profile.
func (h *Handler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	u, err := h.service.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get current user failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toProfileResponse(u))
}

// HandleProvisionMe creates the profile of a token subject seen for the first time.
func (h *Handler) HandleProvisionMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[ProvisionRequest](w, r, h.logger)
	if !ok {
		return
	}

	u, err := h.service.Register(ctx, service.RegisterCommand{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
		Role:  models.Role(req.Role),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "provision user failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toProfileResponse(u))
}

// HandleGetUser returns the public view of any account.
func (h *Handler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}

	u, err := h.service.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "get user failed", "error", err, "user_id", userID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPublicResponse(u))
}

type ProfileResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	Banned    bool       `json:"banned"`
	BanReason string     `json:"ban_reason,omitempty"`
	BannedAt  *time.Time `json:"banned_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type PublicResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Banned bool   `json:"banned"`
}

func toProfileResponse(u *models.User) *ProfileResponse {
	return &ProfileResponse{
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

func toPublicResponse(u *models.User) *PublicResponse {
	return &PublicResponse{
		ID:     u.ID.String(),
		Name:   u.Name,
		Role:   string(u.Role),
		Banned: u.Banned,
	}
}
