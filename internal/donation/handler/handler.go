package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"foodlink/internal/donation/models"
	"foodlink/internal/donation/service"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/geo"
	"foodlink/pkg/platform/httputil"
	"foodlink/pkg/requestcontext"
)

// Service is the listing and need surface the handler needs.
type Service interface {
	CreateListing(ctx context.Context, donorID id.UserID, cmd service.CreateListingCommand) (*models.Listing, int, error)
	CreateNeed(ctx context.Context, ngoID id.UserID, cmd service.CreateNeedCommand) (*models.Need, int, error)
	GetListing(ctx context.Context, listingID id.ListingID) (*models.Listing, error)
	GetNeed(ctx context.Context, needID id.NeedID) (*models.Need, error)
	ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error)
	ListNeeds(ctx context.Context, f models.NeedFilter) ([]*models.Need, error)
	UpdateListingStatus(ctx context.Context, actorID id.UserID, listingID id.ListingID, next models.ListingStatus) (*models.Listing, error)
	RateListing(ctx context.Context, raterID id.UserID, listingID id.ListingID, rating float64) (*models.Listing, error)
	UpdateNeedStatus(ctx context.Context, ngoID id.UserID, needID id.NeedID, next models.NeedStatus) (*models.Need, error)
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
	r.Route("/listings", func(r chi.Router) {
		r.Post("/", h.HandleCreateListing)
		r.Get("/", h.HandleListListings)
		r.Get("/{id}", h.HandleGetListing)
		r.Post("/{id}/status", h.HandleListingStatus)
		r.Post("/{id}/rating", h.HandleRateListing)
	})
	r.Route("/needs", func(r chi.Router) {
		r.Post("/", h.HandleCreateNeed)
		r.Get("/", h.HandleListNeeds)
		r.Get("/{id}", h.HandleGetNeed)
		r.Post("/{id}/status", h.HandleNeedStatus)
	})
}

func (h *Handler) HandleCreateListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateListingRequest](w, r, h.logger)
	if !ok {
		return
	}

	l, matches, err := h.service.CreateListing(ctx, userID, service.CreateListingCommand{
		Title:    req.Title,
		Category: models.Category(req.Category),
		Quantity: req.Quantity,
		Location: req.Location.point(),
		IsFresh:  req.IsFresh,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create listing failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &CreateListingResponse{Listing: toListingResponse(l), Matches: matches})
}

// HandleListListings filters by ?category, ?status and ?mine=true.
func (h *Handler) HandleListListings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var f models.ListingFilter
	q := r.URL.Query()
	if f.Category, err = categoryParam(q.Get("category")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if raw := q.Get("status"); raw != "" {
		if f.Status, err = models.ParseListingStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if q.Get("mine") == "true" {
		f.DonorID = userID
	}

	list, err := h.service.ListListings(ctx, f)
	if err != nil {
		h.logger.ErrorContext(ctx, "list listings failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	resp := ListingListResponse{Listings: make([]*ListingResponse, 0, len(list))}
	for _, l := range list {
		resp.Listings = append(resp.Listings, toListingResponse(l))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	listingID, err := id.ParseListingID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid listing id"))
		return
	}
	l, err := h.service.GetListing(ctx, listingID)
	if err != nil {
		h.logger.WarnContext(ctx, "get listing failed", "error", err, "listing_id", listingID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListingResponse(l))
}

func (h *Handler) HandleListingStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, listingID, ok := h.listingTarget(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[ListingStatusRequest](w, r, h.logger)
	if !ok {
		return
	}

	l, err := h.service.UpdateListingStatus(ctx, userID, listingID, req.parsed)
	if err != nil {
		h.logger.WarnContext(ctx, "update listing status failed", "error", err, "listing_id", listingID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListingResponse(l))
}

func (h *Handler) HandleRateListing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, listingID, ok := h.listingTarget(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[RatingRequest](w, r, h.logger)
	if !ok {
		return
	}

	l, err := h.service.RateListing(ctx, userID, listingID, req.Rating)
	if err != nil {
		h.logger.WarnContext(ctx, "rate listing failed", "error", err, "listing_id", listingID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toListingResponse(l))
}

func (h *Handler) HandleCreateNeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateNeedRequest](w, r, h.logger)
	if !ok {
		return
	}

	n, matches, err := h.service.CreateNeed(ctx, userID, service.CreateNeedCommand{
		Title:        req.Title,
		Category:     models.Category(req.Category),
		Quantity:     req.Quantity,
		Location:     req.Location.point(),
		Urgency:      models.Urgency(req.Urgency),
		IsPerishable: req.IsPerishable,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create need failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, &CreateNeedResponse{Need: toNeedResponse(n), Matches: matches})
}

// HandleListNeeds filters by ?category, ?status and ?mine=true.
func (h *Handler) HandleListNeeds(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	var f models.NeedFilter
	q := r.URL.Query()
	if f.Category, err = categoryParam(q.Get("category")); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if raw := q.Get("status"); raw != "" {
		if f.Status, err = models.ParseNeedStatus(raw); err != nil {
			httputil.WriteError(w, err)
			return
		}
	}
	if q.Get("mine") == "true" {
		f.NGOID = userID
	}

	list, err := h.service.ListNeeds(ctx, f)
	if err != nil {
		h.logger.ErrorContext(ctx, "list needs failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	resp := NeedListResponse{Needs: make([]*NeedResponse, 0, len(list))}
	for _, n := range list {
		resp.Needs = append(resp.Needs, toNeedResponse(n))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetNeed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	needID, err := id.ParseNeedID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid need id"))
		return
	}
	n, err := h.service.GetNeed(ctx, needID)
	if err != nil {
		h.logger.WarnContext(ctx, "get need failed", "error", err, "need_id", needID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNeedResponse(n))
}

func (h *Handler) HandleNeedStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, err := httputil.RequireUserID(ctx, h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	needID, err := id.ParseNeedID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid need id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[NeedStatusRequest](w, r, h.logger)
	if !ok {
		return
	}

	n, err := h.service.UpdateNeedStatus(ctx, userID, needID, req.parsed)
	if err != nil {
		h.logger.WarnContext(ctx, "update need status failed", "error", err, "need_id", needID, "request_id", requestcontext.RequestID(ctx))
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toNeedResponse(n))
}

func (h *Handler) listingTarget(w http.ResponseWriter, r *http.Request) (id.UserID, id.ListingID, bool) {
	userID, err := httputil.RequireUserID(r.Context(), h.logger)
	if err != nil {
		httputil.WriteError(w, err)
		return id.UserID{}, id.ListingID{}, false
	}
	listingID, err := id.ParseListingID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid listing id"))
		return id.UserID{}, id.ListingID{}, false
	}
	return userID, listingID, true
}

func categoryParam(raw string) (models.Category, error) {
	if raw == "" {
		return "", nil
	}
	return models.ParseCategory(raw)
}

type OwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ListingResponse struct {
	ID        string        `json:"id"`
	Donor     OwnerResponse `json:"donor"`
	Title     string        `json:"title"`
	Category  string        `json:"category"`
	Quantity  int           `json:"quantity"`
	Location  geo.Point     `json:"location"`
	IsFresh   bool          `json:"is_fresh"`
	Status    string        `json:"status"`
	Rating    float64       `json:"rating"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type CreateListingResponse struct {
	Listing *ListingResponse `json:"listing"`
	Matches int              `json:"matches"`
}

type ListingListResponse struct {
	Listings []*ListingResponse `json:"listings"`
}

type NeedResponse struct {
	ID           string        `json:"id"`
	NGO          OwnerResponse `json:"ngo"`
	Title        string        `json:"title"`
	Category     string        `json:"category"`
	Quantity     int           `json:"quantity"`
	Location     geo.Point     `json:"location"`
	Urgency      string        `json:"urgency"`
	IsPerishable bool          `json:"is_perishable"`
	Status       string        `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type CreateNeedResponse struct {
	Need    *NeedResponse `json:"need"`
	Matches int           `json:"matches"`
}

type NeedListResponse struct {
	Needs []*NeedResponse `json:"needs"`
}

func toListingResponse(l *models.Listing) *ListingResponse {
	return &ListingResponse{
		ID:        l.ID.String(),
		Donor:     OwnerResponse{ID: l.Donor.ID.String(), Name: l.Donor.Name},
		Title:     l.Title,
		Category:  string(l.Category),
		Quantity:  l.Quantity,
		Location:  l.Location,
		IsFresh:   l.IsFresh,
		Status:    string(l.Status),
		Rating:    l.Rating,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func toNeedResponse(n *models.Need) *NeedResponse {
	return &NeedResponse{
		ID:           n.ID.String(),
		NGO:          OwnerResponse{ID: n.NGO.ID.String(), Name: n.NGO.Name},
		Title:        n.Title,
		Category:     string(n.Category),
		Quantity:     n.Quantity,
		Location:     n.Location,
		Urgency:      string(n.Urgency),
		IsPerishable: n.IsPerishable,
		Status:       string(n.Status),
		CreatedAt:    n.CreatedAt,
		UpdatedAt:    n.UpdatedAt,
	}
}
