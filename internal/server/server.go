// Package server builds the HTTP server from configuration. Every limiter,
// cache, store and service is constructed once here and shared by the handlers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/johnrirwin/yatra/internal/auth"
	"github.com/johnrirwin/yatra/internal/cache"
	"github.com/johnrirwin/yatra/internal/catalog"
	"github.com/johnrirwin/yatra/internal/config"
	"github.com/johnrirwin/yatra/internal/database"
	"github.com/johnrirwin/yatra/internal/explore"
	"github.com/johnrirwin/yatra/internal/httpapi"
	"github.com/johnrirwin/yatra/internal/logging"
	"github.com/johnrirwin/yatra/internal/metrics"
	"github.com/johnrirwin/yatra/internal/places"
	"github.com/johnrirwin/yatra/internal/ratelimit"
	"github.com/johnrirwin/yatra/internal/support"
	"github.com/johnrirwin/yatra/internal/tagging"
)

const (
	idleTimeout         = 120 * time.Second
	expiredRowsInterval = time.Hour
)

type Server struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *metrics.Metrics
	handler http.Handler
	db      *database.DB
	redis   *redis.Client
	stops   []func()
}

// New connects to the configured backends and registers all routes.
// Close releases what New acquired.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger, m *metrics.Metrics) (*Server, error) {
	s := &Server{cfg: cfg, logger: logger, metrics: m}
	if err := s.init(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) init(ctx context.Context) error {
	cfg := s.cfg

	if cfg.Redis.Addr != "" {
		client, err := openRedis(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		s.redis = client
		s.logger.Info("Connected to Redis", logging.WithField("addr", cfg.Redis.Addr))
	}

	if cfg.AuthEnabled() {
		db, err := database.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
		if err != nil {
			return err
		}
		s.db = db
		if err := db.Migrate(ctx); err != nil {
			return err
		}
		s.logger.Info("Connected to database")
	} else {
		s.logger.Warn("No database configured; auth and support endpoints are disabled")
	}

	keys, err := ratelimit.NewKeyResolver(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	tagger := tagging.New()
	aggregator := places.NewAggregator(s.buildProviders(tagger), tagger, s.metrics, s.logger)
	exploreSvc := explore.NewService(s.buildExploreLimiter(), s.buildResultCache(), aggregator, cfg.Cache.TTL, s.metrics, s.logger)

	var (
		authSvc    *auth.Service
		authMW     *auth.Middleware
		supportAPI = httpapi.NewSupportAPI(nil, s.logger)
	)
	if s.db != nil {
		sessions := database.NewSessionStore(s.db)
		attempts := database.NewLoginAttemptStore(s.db)

		authSvc = auth.NewService(
			database.NewUserStore(s.db),
			sessions,
			attempts,
			s.buildOTPLimiter(),
			auth.Config{
				JWTSecret:  []byte(cfg.Auth.JWTSecret),
				SessionTTL: cfg.Auth.SessionTTL,
				OTPTTL:     cfg.Auth.OTPTTL,
				ExposeOTP:  cfg.Auth.ExposeOTP,
			},
			s.logger,
		)
		authMW = auth.NewMiddleware(authSvc, cfg.Auth.CookieSecure, s.logger)
		supportAPI = httpapi.NewSupportAPI(support.NewService(database.NewSupportStore(s.db), s.logger), s.logger)

		s.stops = append(s.stops, startExpiredRowSweeper(expiredRowsInterval, s.logger, sessions, attempts))
	}

	mux := http.NewServeMux()
	httpapi.NewExploreAPI(exploreSvc, aggregator, keys, s.logger).RegisterRoutes(mux, s.corsMiddleware)
	httpapi.NewAuthAPI(authSvc, authMW, s.logger).RegisterRoutes(mux, s.corsMiddleware)
	supportAPI.RegisterRoutes(mux, s.corsMiddleware)
	httpapi.NewCatalogAPI(catalog.NewService(s.logger), s.logger).RegisterRoutes(mux, s.corsMiddleware)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", s.metrics.Handler())

	s.handler = s.logRequests(mux)
	return nil
}

func openRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

// buildProviders lists providers in priority order: live search first, then
// the curated list.
func (s *Server) buildProviders(tagger *tagging.Tagger) []places.Provider {
	var providers []places.Provider
	if s.cfg.Search.APIKey != "" {
		providers = append(providers, places.NewSearchAPIProvider(places.SearchAPIConfig{
			APIKey:         s.cfg.Search.APIKey,
			BaseURL:        s.cfg.Search.BaseURL,
			Timeout:        s.cfg.Search.Timeout,
			RequestsPerSec: s.cfg.Search.RequestsPerSec,
			Burst:          s.cfg.Search.Burst,
		}))
	} else {
		s.logger.Warn("search.api_key not set; live place search is disabled")
	}
	if !s.cfg.Search.DisableCurated {
		providers = append(providers, places.NewCuratedProvider(tagger))
	}
	if len(providers) == 0 {
		s.logger.Warn("No place providers configured; explore requests will fail")
	}
	return providers
}

func (s *Server) buildExploreLimiter() ratelimit.RateLimiter {
	rl := s.cfg.RateLimit
	if rl.Backend == config.BackendRedis {
		return ratelimit.NewRedisTokenBucket(s.redis, s.cfg.Redis.Prefix+"ratelimit:explore:", rl.Capacity, rl.RefillPerSec, s.logger)
	}

	limiter := ratelimit.NewTokenBucket(rl.Capacity, rl.RefillPerSec)
	s.stops = append(s.stops, limiter.StartSweeper(rl.SweepInterval))
	return limiter
}

func (s *Server) buildResultCache() explore.ResultCache {
	cc := s.cfg.Cache
	if cc.Backend == config.BackendRedis {
		return explore.NewRedisResultCache(cache.NewRedis(s.redis, s.cfg.Redis.Prefix+"explore:"), s.logger)
	}

	c := cache.NewWithOptions(cache.Options{
		DefaultTTL:    cc.TTL,
		MaxEntries:    cc.MaxEntries,
		SweepInterval: cc.SweepInterval,
	})
	s.stops = append(s.stops, c.Stop)
	return explore.NewMemoryResultCache(c, s.metrics)
}

// buildOTPLimiter shares OTP throttling across instances when Redis is
// available, since codes are redeemable on any of them.
func (s *Server) buildOTPLimiter() ratelimit.RateLimiter {
	interval := s.cfg.Auth.OTPMinInterval
	if s.redis != nil {
		return ratelimit.NewRedisIntervalLimiter(s.redis, s.cfg.Redis.Prefix+"ratelimit:otp:", interval)
	}

	limiter := ratelimit.NewIntervalLimiter(interval, nil)
	s.stops = append(s.stops, limiter.StartSweeper(s.cfg.RateLimit.SweepInterval))
	return limiter
}

// Handler returns the root handler with all routes registered.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.handler,
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", logging.WithField("addr", httpServer.Addr))
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.logger.Info("Server stopped gracefully")
	return nil
}

// Close stops background sweepers and closes backend connections.
func (s *Server) Close() {
	for i := len(s.stops) - 1; i >= 0; i-- {
		s.stops[i]()
	}
	s.stops = nil

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("Failed to close database", logging.WithField("error", err.Error()))
		}
		s.db = nil
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Warn("Failed to close redis client", logging.WithField("error", err.Error()))
		}
		s.redis = nil
	}
}
