package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	donationhandler "foodlink/internal/donation/handler"
	donationmetrics "foodlink/internal/donation/metrics"
	donationservice "foodlink/internal/donation/service"
	"foodlink/internal/matching"
	matchingadapters "foodlink/internal/matching/adapters"
	"foodlink/internal/matching/guard"
	matchingmetrics "foodlink/internal/matching/metrics"
	notificationhandler "foodlink/internal/notification/handler"
	notificationservice "foodlink/internal/notification/service"
	"foodlink/internal/platform/config"
	"foodlink/internal/platform/events"
	"foodlink/internal/platform/health"
	jwttoken "foodlink/internal/platform/jwt"
	"foodlink/internal/platform/kafka/producer"
	"foodlink/internal/platform/logger"
	platformredis "foodlink/internal/platform/redis"
	"foodlink/internal/reputation"
	reputationadapters "foodlink/internal/reputation/adapters"
	reputationmetrics "foodlink/internal/reputation/metrics"
	"foodlink/internal/seeder"
	httptransport "foodlink/internal/transport/http"
	userhandler "foodlink/internal/user/handler"
	userservice "foodlink/internal/user/service"
	"foodlink/pkg/platform/middleware/request"
)

const (
	tokenTTL        = 24 * time.Hour
	shutdownTimeout = 10 * time.Second
	statsInterval   = 15 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "foodlink:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.InfoContext(ctx, "initializing foodlink",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"store", cfg.Store.Driver,
	)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checks := health.New(cfg.Environment)

	st, err := openStores(ctx, cfg, log, checks)
	if err != nil {
		return fmt.Errorf("open stores: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := st.close(closeCtx); err != nil {
			log.Error("closing stores failed", "error", err)
		}
	}()

	redisClient, err := platformredis.New(ctx, cfg.Redis, reg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer redisClient.Close() //nolint:errcheck // shutdown path
		checks.RegisterCheck("redis", redisClient.Health)
	}

	publisher, closePublisher, err := newPublisher(cfg, log, checks)
	if err != nil {
		return fmt.Errorf("connect kafka: %w", err)
	}
	defer closePublisher()

	tokens := jwttoken.NewService(cfg.JWT.SigningKey, tokenTTL)

	users := userservice.New(st.users, userservice.WithLogger(log))
	notifications := notificationservice.New(st.notifications,
		notificationservice.WithLogger(log),
		notificationservice.WithEvents(publisher),
	)

	engineOpts := []matching.Option{
		matching.WithLogger(log),
		matching.WithMetrics(matchingmetrics.New(reg)),
	}
	switch {
	case redisClient != nil:
		engineOpts = append(engineOpts, matching.WithPairGuard(guard.NewRedis(redisClient.Client, cfg.Redis.DedupeTTL)))
	case cfg.Matching.Dedupe:
		engineOpts = append(engineOpts, matching.WithPairGuard(guard.NewMemory(cfg.Redis.DedupeTTL)))
	}
	engine := matching.New(st.donations, st.donations,
		matchingadapters.NewNotificationAdapter(notifications),
		engineOpts...,
	)

	monitor := reputation.New(st.donations, users,
		reputation.WithLogger(log),
		reputation.WithMetrics(reputationmetrics.New(reg)),
		reputation.WithEvents(publisher),
	)

	donations := donationservice.New(st.donations, st.donations, users,
		matchingadapters.NewDonationMatcher(engine),
		reputationadapters.NewDonationEvaluator(monitor),
		donationservice.WithLogger(log),
		donationservice.WithMetrics(donationmetrics.New(reg)),
	)

	if cfg.Seed.Demo {
		if _, err := seeder.New(st.users, st.donations, tokens, log).SeedAll(ctx); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:         log,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Validator:      jwttoken.NewAdapter(tokens),
		Gatherer:       reg,
		Metrics:        request.NewMetrics(reg),
		Public:         []httptransport.Registrar{checks},
		Protected: []httptransport.Registrar{
			userhandler.New(users, log),
			donationhandler.New(donations, log),
			notificationhandler.New(notifications, log),
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if redisClient != nil {
		g.Go(func() error {
			recordPoolStats(gctx, redisClient)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// newPublisher returns the kafka publisher when brokers are configured and
// the noop publisher otherwise.
func newPublisher(cfg config.Server, log *slog.Logger, checks *health.Handler) (events.Publisher, func(), error) {
	if strings.TrimSpace(cfg.Kafka.Brokers) == "" {
		return events.Noop{}, func() {}, nil
	}
	prod, err := producer.New(producer.Config{
		Brokers:      cfg.Kafka.Brokers,
		DefaultTopic: cfg.Kafka.Topic,
	}, log)
	if err != nil {
		return nil, nil, err
	}
	checks.RegisterCheck("kafka", prod.Ping)
	return events.NewKafkaPublisher(prod, events.WithLogger(log)), func() { prod.Close(5 * time.Second) }, nil
}

func recordPoolStats(ctx context.Context, client *platformredis.Client) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			client.RecordPoolStats()
		}
	}
}
