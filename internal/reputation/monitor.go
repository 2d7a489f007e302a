// Package reputation decides whether a donor's delivery ratings warrant an
// automatic suspension and applies it.
package reputation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"foodlink/internal/platform/events"
	"foodlink/internal/reputation/metrics"
	"foodlink/internal/reputation/models"
	"foodlink/internal/reputation/ports"
	id "foodlink/pkg/domain"
	"foodlink/pkg/requestcontext"
)

// Monitor never bans on data it could not read, and never surfaces a failed
// ban write to its caller.
type Monitor struct {
	ratings ports.RatingsReader
	banner  ports.UserBanner
	cfg     Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	events  events.Publisher
	tracer  trace.Tracer
	now     func() time.Time
}

type Option func(*Monitor)

func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		m.logger = l
	}
}

func WithMetrics(mt *metrics.Metrics) Option {
	return func(m *Monitor) {
		m.metrics = mt
	}
}

func WithConfig(cfg Config) Option {
	return func(m *Monitor) {
		m.cfg = cfg
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Monitor) {
		m.now = now
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(m *Monitor) {
		m.tracer = t
	}
}

// WithEvents publishes a donor.suspended event after each applied ban.
func WithEvents(p events.Publisher) Option {
	return func(m *Monitor) {
		m.events = p
	}
}

// SuspendedPayload is the payload of a donor.suspended event.
type SuspendedPayload struct {
	DonorID  id.UserID `json:"donor_id"`
	Reason   string    `json:"reason"`
	BannedAt time.Time `json:"banned_at"`
}

func New(ratings ports.RatingsReader, banner ports.UserBanner, opts ...Option) *Monitor {
	if ratings == nil {
		panic("reputation.New: ratings reader is required")
	}
	if banner == nil {
		panic("reputation.New: user banner is required")
	}

	m := &Monitor{
		ratings: ratings,
		banner:  banner,
		cfg:     DefaultConfig(),
		events:  events.Noop{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	if m.tracer == nil {
		m.tracer = otel.Tracer("foodlink/reputation")
	}
	return m
}

// Evaluate reads the donor's ratings and applies the ban rules without writing.
func (m *Monitor) Evaluate(ctx context.Context, donorID id.UserID) models.Verdict {
	avg, err := m.ratings.AverageRating(ctx, donorID)
	if err != nil {
		return models.Indeterminate{Err: err}
	}
	if avg != nil && *avg < m.cfg.AverageCutoff {
		return models.Decided{Decision: Decide(avg, nil, m.cfg)}
	}

	recent, err := m.ratings.RecentRatedDeliveries(ctx, donorID, m.cfg.WindowSize)
	if err != nil {
		return models.Indeterminate{Err: err}
	}
	return models.Decided{Decision: Decide(avg, recent, m.cfg)}
}

// EvaluateBan evaluates the donor and, when the verdict calls for it, writes
// the ban. A donor who is already banned is banned again.
func (m *Monitor) EvaluateBan(ctx context.Context, donorID id.UserID) models.Outcome {
	start := time.Now()
	ctx, span := m.tracer.Start(ctx, "reputation.EvaluateBan", trace.WithAttributes(
		attribute.String("donor.id", donorID.String()),
	))
	defer span.End()

	outcome := models.Outcome{
		DonorID:   donorID,
		Verdict:   m.Evaluate(ctx, donorID),
		Evaluated: m.now().UTC(),
	}

	switch v := outcome.Verdict.(type) {
	case models.Indeterminate:
		span.RecordError(v.Err)
		span.SetStatus(codes.Error, "ratings unavailable")
		m.logger.ErrorContext(ctx, "ratings lookup failed, not banning",
			"donor_id", donorID,
			"error", v.Err,
			"request_id", requestcontext.RequestID(ctx),
		)
		m.observe(metrics.OutcomeIndeterminate, start)
		return outcome

	case models.Decided:
		if !v.Decision.Ban {
			m.logger.DebugContext(ctx, "donor in good standing", "donor_id", donorID)
			m.observe(metrics.OutcomeNoBan, start)
			return outcome
		}
		span.SetAttributes(attribute.String("ban.reason", string(v.Decision.Reason)))
		m.apply(ctx, span, &outcome, v.Decision.Reason)
	}

	m.observe(metrics.OutcomeBan, start)
	return outcome
}

func (m *Monitor) apply(ctx context.Context, span trace.Span, outcome *models.Outcome, reason models.Reason) {
	at := m.now().UTC()
	if err := m.banner.Ban(ctx, outcome.DonorID, string(reason), at); err != nil {
		outcome.ApplyErr = err
		span.RecordError(err)
		if m.metrics != nil {
			m.metrics.IncrementWriteFailure()
		}
		m.logger.ErrorContext(ctx, "failed to apply donor ban",
			"donor_id", outcome.DonorID,
			"reason", reason,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}

	outcome.Applied = true
	if m.metrics != nil {
		m.metrics.IncrementBan(string(reason))
	}
	m.logger.InfoContext(ctx, "donor banned",
		"donor_id", outcome.DonorID,
		"reason", reason,
		"request_id", requestcontext.RequestID(ctx),
	)

	err := m.events.Publish(ctx, events.Event{
		Type: events.TypeDonorSuspended,
		Key:  outcome.DonorID.String(),
		Payload: SuspendedPayload{
			DonorID:  outcome.DonorID,
			Reason:   string(reason),
			BannedAt: at,
		},
	})
	if err != nil {
		m.logger.WarnContext(ctx, "failed to publish donor suspension",
			"donor_id", outcome.DonorID,
			"error", err,
		)
	}
}

func (m *Monitor) observe(outcome string, start time.Time) {
	if m.metrics != nil {
		m.metrics.ObserveEvaluation(outcome, start)
	}
}
