package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dimitrije/rosterdesk-api/internal/config"
	"github.com/dimitrije/rosterdesk-api/internal/database"
	"github.com/dimitrije/rosterdesk-api/internal/logger"
	"github.com/dimitrije/rosterdesk-api/internal/metadata"
	"github.com/dimitrije/rosterdesk-api/internal/metrics"
	"github.com/dimitrije/rosterdesk-api/internal/perfsync"
	"github.com/dimitrije/rosterdesk-api/internal/server"
	"github.com/dimitrije/rosterdesk-api/internal/services"
	"github.com/dimitrije/rosterdesk-api/internal/spotify"
	"github.com/dimitrije/rosterdesk-api/internal/sse"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	fetcherOpts := []metadata.Option{
		metadata.WithExtractor(metadata.NewExtractor(cfg.Metadata.Extractor)),
		metadata.WithScraper(metadata.NewScrapeClient(cfg.Metadata.ScrapeAPIURL, cfg.Metadata.ScrapeAPIKey, nil)),
		metadata.WithLogger(log),
		metadata.WithMetrics(m),
	}
	if cfg.RedisURL != "" {
		redisClient, err := newRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Warn("metadata cache disabled", zap.Error(err))
		} else {
			defer func() { _ = redisClient.Close() }()
			fetcherOpts = append(fetcherOpts, metadata.WithCache(metadata.NewRedisCache(redisClient, cfg.Metadata.CacheTTL, log)))
		}
	}
	fetcher := metadata.NewFetcher(fetcherOpts...)

	spotifyClient := spotify.NewClient(cfg.Spotify, spotify.WithMetrics(m), spotify.WithLogger(log))

	jwtService := services.NewJWTService(cfg.JWTSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	userService := services.NewUserService(db)
	tokenService := services.NewTokenService(db)
	teamService := services.NewTeamService(db)
	emailService := services.NewEmailService(cfg.SMTP)

	var lookup services.ArtistLookup
	if cfg.Spotify.HasCredentials() {
		lookup = spotifyClient
	}
	artistService := services.NewArtistService(db, lookup, log)
	taskService := services.NewTaskService(db)
	prospectService := services.NewProspectService(db)
	budgetService := services.NewBudgetService(db)
	performanceService := services.NewPerformanceService(db)
	overviewService := services.NewOverviewService(db, prospectService)
	preferenceService := services.NewPreferenceService(services.NewPgSettingsRepository(db, log))

	syncer := perfsync.NewSyncer(
		perfsync.NewClient(cfg.PerformanceSync.URL, cfg.PerformanceSync.APIKey, nil),
		performanceService, log, m,
	)

	hub := sse.NewHub()
	go hub.Run(ctx)
	syncer.SetNotifier(hub)

	api := server.New(server.Deps{
		Config:      cfg,
		Logger:      log,
		Metrics:     m,
		JWT:         jwtService,
		Users:       userService,
		Tokens:      tokenService,
		Teams:       teamService,
		Email:       emailService,
		Artists:     artistService,
		Tasks:       taskService,
		Prospects:   prospectService,
		Budgets:     budgetService,
		Performance: performanceService,
		Overview:    overviewService,
		Preferences: preferenceService,
		Fetcher:     fetcher,
		Spotify:     spotifyClient,
		Syncer:      syncer,
		Hub:         hub,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go api.Auth.RunCleanup(ctx, time.Minute)
	go runTokenCleanup(ctx, tokenService, log)

	go func() {
		log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.Strings("login_providers", api.Auth.Providers()),
			zap.Bool("spotify_search", cfg.Spotify.HasCredentials()),
			zap.Bool("performance_sync", cfg.PerformanceSync.URL != ""),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

func runTokenCleanup(ctx context.Context, tokens *services.TokenService, log *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := tokens.CleanupExpired(ctx)
			if err != nil {
				log.Warn("refresh token cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				log.Debug("expired refresh tokens removed", zap.Int64("count", removed))
			}
		}
	}
}
