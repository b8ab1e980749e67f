package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/civicvote/auth"
	"github.com/danielhkuo/civicvote/cliparse"
	"github.com/danielhkuo/civicvote/metrics"
	"github.com/danielhkuo/civicvote/middleware"
	"github.com/danielhkuo/civicvote/ratelimit"
	"github.com/danielhkuo/civicvote/router"
	"github.com/danielhkuo/civicvote/tracing"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the API server (default)",
		RunE:  serveRun,
	}
}

// newLimiter uses Redis when an address is configured so replicas share
// budgets, and in-process buckets otherwise
func newLimiter(ctx context.Context, cfg cliparse.Config) (ratelimit.Limiter, error) {
	if cfg.RedisAddr == "" {
		return ratelimit.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst), nil
	}
	client, err := ratelimit.Dial(ctx, cfg.RedisAddr)
	if err != nil {
		return nil, err
	}
	slog.Info("using redis rate limiter", "addr", cfg.RedisAddr)
	return ratelimit.NewRedisLimiter(client, cfg.RateLimitRPS, cfg.RateLimitBurst), nil
}

func serveRun(cmd *cobra.Command, _ []string) error {
	commonRun()

	cfg, err := cliparse.Resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, os.Stdout)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
	}()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.DB().Close()
	slog.Info("database ready", "type", cfg.DatabaseType)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	limiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer limiter.Close()

	proxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	mux := router.NewRouter(st, auth.NewVerifier(cfg.IdentitySecret, cfg.IdentityIssuer), m)

	server := http.Server{
		Handler:           middleware.CORS(middleware.RateLimit(limiter, proxies, m, mux)),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		slog.Info("Listening", "port", cfg.Port)
		errc <- server.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		return server.Close()
	}
	slog.Info("Server closed")
	return nil
}
