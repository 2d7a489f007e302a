// Package matching pairs newly created listings and needs with open
// counterparts of the same category within a fixed radius and notifies both
// sides of every pair.
package matching

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	donation "foodlink/internal/donation/models"
	"foodlink/internal/matching/guard"
	"foodlink/internal/matching/metrics"
	"foodlink/internal/matching/models"
	"foodlink/internal/matching/ports"
	"foodlink/pkg/geo"
	"foodlink/pkg/requestcontext"
)

// Engine runs synchronously inside the creating request. It never returns an
// error: lookup failures become an empty Result and notification failures are
// counted and logged.
type Engine struct {
	needs    ports.NeedFinder
	listings ports.ListingFinder
	notifier ports.Notifier
	guard    ports.PairGuard
	cfg      Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithPairGuard enables per-pair deduplication. The default guard claims every pair.
func WithPairGuard(g ports.PairGuard) Option {
	return func(e *Engine) {
		e.guard = g
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) {
		e.tracer = t
	}
}

// New panics if a required port is nil.
func New(needs ports.NeedFinder, listings ports.ListingFinder, notifier ports.Notifier, opts ...Option) *Engine {
	if needs == nil {
		panic("matching.New: need finder is required")
	}
	if listings == nil {
		panic("matching.New: listing finder is required")
	}
	if notifier == nil {
		panic("matching.New: notifier is required")
	}

	e := &Engine{
		needs:    needs,
		listings: listings,
		notifier: notifier,
		guard:    guard.Noop{},
		cfg:      DefaultConfig(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	if e.tracer == nil {
		e.tracer = otel.Tracer("foodlink/matching")
	}
	return e
}

// MatchForNewListing notifies every Open need of the listing's category within
// the radius, in the order the finder returns them.
func (e *Engine) MatchForNewListing(ctx context.Context, listing *donation.Listing) models.Result {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "matching.MatchForNewListing", trace.WithAttributes(
		attribute.String("listing.id", listing.ID.String()),
		attribute.String("category", string(listing.Category)),
	))
	defer span.End()

	var result models.Result
	needs, err := e.needs.FindOpenNeeds(ctx, listing.Category)
	if err != nil {
		result.LookupErr = err
		e.lookupFailed(ctx, span, metrics.TriggerListing, err, "listing_id", listing.ID)
	} else {
		for _, need := range needs {
			if need.Category != listing.Category || need.Status != donation.NeedOpen {
				continue
			}
			e.consider(ctx, &result, listing, need)
		}
	}

	e.finish(ctx, span, metrics.TriggerListing, start, result, "listing_id", listing.ID)
	return result
}

// MatchForNewNeed notifies the donor of every Available listing of the need's
// category within the radius.
func (e *Engine) MatchForNewNeed(ctx context.Context, need *donation.Need) models.Result {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "matching.MatchForNewNeed", trace.WithAttributes(
		attribute.String("need.id", need.ID.String()),
		attribute.String("category", string(need.Category)),
	))
	defer span.End()

	var result models.Result
	listings, err := e.listings.FindAvailableListings(ctx, need.Category)
	if err != nil {
		result.LookupErr = err
		e.lookupFailed(ctx, span, metrics.TriggerNeed, err, "need_id", need.ID)
	} else {
		for _, listing := range listings {
			if listing.Category != need.Category || listing.Status != donation.ListingAvailable {
				continue
			}
			e.consider(ctx, &result, listing, need)
		}
	}

	e.finish(ctx, span, metrics.TriggerNeed, start, result, "need_id", need.ID)
	return result
}

func (e *Engine) consider(ctx context.Context, result *models.Result, listing *donation.Listing, need *donation.Need) {
	distance := geo.Distance(listing.Location, need.Location)
	if distance > e.cfg.RadiusKm {
		return
	}

	match := models.Match{
		ListingID:  listing.ID,
		NeedID:     need.ID,
		DonorID:    donorOf(listing),
		NGOID:      ngoOf(need),
		DistanceKm: distance,
		Priority:   ClassifyPriority(listing, need),
	}
	result.Matches = append(result.Matches, match)
	if e.metrics != nil {
		e.metrics.IncrementMatch(string(match.Priority))
	}

	claimed, err := e.guard.Claim(ctx, listing.ID, need.ID)
	if err != nil {
		e.logger.WarnContext(ctx, "pair guard unavailable, notifying anyway",
			"listing_id", listing.ID,
			"need_id", need.ID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	} else if !claimed {
		result.Suppressed++
		if e.metrics != nil {
			e.metrics.IncrementSuppressed()
		}
		return
	}

	for _, notice := range notices(listing, need, match.Priority) {
		if err := e.notifier.Notify(ctx, notice); err != nil {
			result.NotifyFailures++
			if e.metrics != nil {
				e.metrics.IncrementNotifyFailure()
			}
			e.logger.WarnContext(ctx, "failed to persist match notification",
				"recipient_id", notice.RecipientID,
				"listing_id", listing.ID,
				"need_id", need.ID,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			continue
		}
		result.Notified++
	}
}

func (e *Engine) lookupFailed(ctx context.Context, span trace.Span, trigger string, err error, attrs ...any) {
	span.RecordError(err)
	span.SetStatus(codes.Error, "counterpart lookup failed")
	if e.metrics != nil {
		e.metrics.IncrementLookupFailure(trigger)
	}
	args := append([]any{"trigger", trigger, "error", err, "request_id", requestcontext.RequestID(ctx)}, attrs...)
	e.logger.ErrorContext(ctx, "counterpart lookup failed, no matches", args...)
}

func (e *Engine) finish(ctx context.Context, span trace.Span, trigger string, start time.Time, result models.Result, attrs ...any) {
	span.SetAttributes(
		attribute.Int("matches", result.Count()),
		attribute.Int("notified", result.Notified),
		attribute.Int("notify_failures", result.NotifyFailures),
	)
	if e.metrics != nil {
		e.metrics.ObserveRun(trigger, start)
	}
	args := append([]any{
		"trigger", trigger,
		"matches", result.Count(),
		"notified", result.Notified,
		"notify_failures", result.NotifyFailures,
		"suppressed", result.Suppressed,
		"request_id", requestcontext.RequestID(ctx),
	}, attrs...)
	e.logger.InfoContext(ctx, "matching run complete", args...)
}
