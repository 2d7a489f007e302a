package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"foodlink/internal/donation/metrics"
	"foodlink/internal/donation/models"
	usermodels "foodlink/internal/user/models"
	id "foodlink/pkg/domain"
	dErrors "foodlink/pkg/domain-errors"
	"foodlink/pkg/geo"
	"foodlink/pkg/platform/sentinel"
	platformsync "foodlink/pkg/platform/sync"
	"foodlink/pkg/requestcontext"
)

type ListingStore interface {
	CreateListing(ctx context.Context, l *models.Listing) error
	FindListing(ctx context.Context, listingID id.ListingID) (*models.Listing, error)
	UpdateListing(ctx context.Context, l *models.Listing) error
	ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error)
}

type NeedStore interface {
	CreateNeed(ctx context.Context, n *models.Need) error
	FindNeed(ctx context.Context, needID id.NeedID) (*models.Need, error)
	UpdateNeed(ctx context.Context, n *models.Need) error
	ListNeeds(ctx context.Context, f models.NeedFilter) ([]*models.Need, error)
}

// UserReader resolves the acting account. It returns domain errors.
type UserReader interface {
	Get(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

// Matcher pairs a new record with open counterparts and returns the match count.
type Matcher interface {
	MatchForNewListing(ctx context.Context, l *models.Listing) int
	MatchForNewNeed(ctx context.Context, n *models.Need) int
}

// Evaluator runs the ban check for a donor and reports whether a ban was applied.
type Evaluator interface {
	EvaluateBan(ctx context.Context, donorID id.UserID) bool
}

type CreateListingCommand struct {
	Title    string
	Category models.Category
	Quantity int
	Location geo.Point
	IsFresh  bool
}

type CreateNeedCommand struct {
	Title        string
	Category     models.Category
	Quantity     int
	Location     geo.Point
	Urgency      models.Urgency
	IsPerishable bool
}

// Service owns the listing and need lifecycles. Matching runs synchronously
// after each creation; reputation runs after each rating.
type Service struct {
	listings  ListingStore
	needs     NeedStore
	users     UserReader
	matcher   Matcher
	evaluator Evaluator
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
	locks     *platformsync.KeyedMutex
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func New(listings ListingStore, needs NeedStore, users UserReader, matcher Matcher, evaluator Evaluator, opts ...Option) *Service {
	if listings == nil {
		panic("donation service: listing store is required")
	}
	if needs == nil {
		panic("donation service: need store is required")
	}
	if users == nil {
		panic("donation service: user reader is required")
	}
	if matcher == nil {
		panic("donation service: matcher is required")
	}
	if evaluator == nil {
		panic("donation service: evaluator is required")
	}
	s := &Service{
		listings:  listings,
		needs:     needs,
		users:     users,
		matcher:   matcher,
		evaluator: evaluator,
		now:       time.Now,
		locks:     platformsync.NewKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	return s
}

// CreateListing persists an Available listing for donorID and matches it
// against open needs. The returned count is the number of matched needs.
func (s *Service) CreateListing(ctx context.Context, donorID id.UserID, cmd CreateListingCommand) (*models.Listing, int, error) {
	donor, err := s.actor(ctx, donorID)
	if err != nil {
		return nil, 0, err
	}
	if !donor.IsDonor() {
		return nil, 0, dErrors.New(dErrors.CodeForbidden, "only donors can create listings")
	}
	if donor.Banned {
		return nil, 0, dErrors.New(dErrors.CodeAccountSuspended, "donor account is suspended")
	}

	owner := models.Owner{ID: donor.ID, Name: donor.Name}
	l, err := models.NewListing(id.NewListingID(), owner, cmd.Title, cmd.Category, cmd.Quantity, cmd.Location, cmd.IsFresh, s.now().UTC())
	if err != nil {
		return nil, 0, err
	}
	if err := s.listings.CreateListing(ctx, l); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create listing")
	}

	matches := s.matcher.MatchForNewListing(ctx, l)
	if s.metrics != nil {
		s.metrics.IncrementListingCreated(string(l.Category), matches)
	}
	s.logger.InfoContext(ctx, "listing created",
		"listing_id", l.ID,
		"donor_id", l.DonorID,
		"category", l.Category,
		"matches", matches,
		"request_id", requestcontext.RequestID(ctx),
	)
	return l, matches, nil
}

// CreateNeed persists an Open need for ngoID and matches it against
// available listings.
func (s *Service) CreateNeed(ctx context.Context, ngoID id.UserID, cmd CreateNeedCommand) (*models.Need, int, error) {
	ngo, err := s.actor(ctx, ngoID)
	if err != nil {
		return nil, 0, err
	}
	if !ngo.IsNGO() {
		return nil, 0, dErrors.New(dErrors.CodeForbidden, "only NGOs can create needs")
	}

	owner := models.Owner{ID: ngo.ID, Name: ngo.Name}
	n, err := models.NewNeed(id.NewNeedID(), owner, cmd.Title, cmd.Category, cmd.Quantity, cmd.Location, cmd.Urgency, cmd.IsPerishable, s.now().UTC())
	if err != nil {
		return nil, 0, err
	}
	if err := s.needs.CreateNeed(ctx, n); err != nil {
		return nil, 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create need")
	}

	matches := s.matcher.MatchForNewNeed(ctx, n)
	if s.metrics != nil {
		s.metrics.IncrementNeedCreated(string(n.Category), matches)
	}
	s.logger.InfoContext(ctx, "need created",
		"need_id", n.ID,
		"ngo_id", n.NGOID,
		"category", n.Category,
		"urgency", n.Urgency,
		"matches", matches,
		"request_id", requestcontext.RequestID(ctx),
	)
	return n, matches, nil
}

func (s *Service) GetListing(ctx context.Context, listingID id.ListingID) (*models.Listing, error) {
	l, err := s.listings.FindListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "listing not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load listing")
	}
	return l, nil
}

func (s *Service) GetNeed(ctx context.Context, needID id.NeedID) (*models.Need, error) {
	n, err := s.needs.FindNeed(ctx, needID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "need not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load need")
	}
	return n, nil
}

func (s *Service) ListListings(ctx context.Context, f models.ListingFilter) ([]*models.Listing, error) {
	out, err := s.listings.ListListings(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list listings")
	}
	return out, nil
}

func (s *Service) ListNeeds(ctx context.Context, f models.NeedFilter) ([]*models.Need, error) {
	out, err := s.needs.ListNeeds(ctx, f)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list needs")
	}
	return out, nil
}

// UpdateListingStatus moves a listing along its lifecycle. The owning donor
// may make any allowed transition; an NGO may only record the handoff steps.
func (s *Service) UpdateListingStatus(ctx context.Context, actorID id.UserID, listingID id.ListingID, next models.ListingStatus) (*models.Listing, error) {
	defer s.locks.Lock(listingID.String())()

	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	l, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}

	switch {
	case actor.IsDonor() && l.DonorID == actor.ID:
	case actor.IsNGO() && next.IsHandoff():
	default:
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to change this listing")
	}

	if err := l.TransitionTo(next, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.saveListing(ctx, l); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementStatusChange("listing", string(next))
	}
	s.logger.InfoContext(ctx, "listing status changed",
		"listing_id", l.ID,
		"status", l.Status,
		"actor_id", actor.ID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return l, nil
}

// RateListing records an NGO rating on a delivered listing and then
// re-evaluates the donor. The rating stands whatever the evaluation does.
func (s *Service) RateListing(ctx context.Context, raterID id.UserID, listingID id.ListingID, rating float64) (*models.Listing, error) {
	defer s.locks.Lock(listingID.String())()

	rater, err := s.actor(ctx, raterID)
	if err != nil {
		return nil, err
	}
	if !rater.IsNGO() {
		return nil, dErrors.New(dErrors.CodeForbidden, "only NGOs can rate deliveries")
	}
	l, err := s.GetListing(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if err := l.Rate(rating, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.saveListing(ctx, l); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncrementRating()
	}

	banned := s.evaluator.EvaluateBan(ctx, l.DonorID)
	s.logger.InfoContext(ctx, "listing rated",
		"listing_id", l.ID,
		"donor_id", l.DonorID,
		"rating", rating,
		"donor_banned", banned,
		"request_id", requestcontext.RequestID(ctx),
	)
	return l, nil
}

// UpdateNeedStatus closes a need. Only the owning NGO may do so.
func (s *Service) UpdateNeedStatus(ctx context.Context, ngoID id.UserID, needID id.NeedID, next models.NeedStatus) (*models.Need, error) {
	defer s.locks.Lock(needID.String())()

	n, err := s.GetNeed(ctx, needID)
	if err != nil {
		return nil, err
	}
	if n.NGOID != ngoID {
		return nil, dErrors.New(dErrors.CodeForbidden, "not allowed to change this need")
	}
	if err := n.TransitionTo(next, s.now().UTC()); err != nil {
		return nil, err
	}
	if err := s.needs.UpdateNeed(ctx, n); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "need not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update need")
	}
	if s.metrics != nil {
		s.metrics.IncrementStatusChange("need", string(next))
	}
	s.logger.InfoContext(ctx, "need status changed",
		"need_id", n.ID,
		"status", n.Status,
		"request_id", requestcontext.RequestID(ctx),
	)
	return n, nil
}

func (s *Service) saveListing(ctx context.Context, l *models.Listing) error {
	if err := s.listings.UpdateListing(ctx, l); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "listing not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update listing")
	}
	return nil
}

// actor loads the caller's profile. A token subject without a profile is
// forbidden rather than not found.
func (s *Service) actor(ctx context.Context, userID id.UserID) (*usermodels.User, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, dErrors.New(dErrors.CodeForbidden, "register a profile before acting")
		}
		return nil, err
	}
	return u, nil
}
