// Package main is the entry point for the ReelTube API server.
// ReelTube is a video sharing platform backend: accounts, channels,
// video metadata, reactions and comments over a JSON HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/auth"
	"github.com/reeltube/reeltube/internal/bootstrap"
	"github.com/reeltube/reeltube/internal/config"
	"github.com/reeltube/reeltube/internal/handler"
	"github.com/reeltube/reeltube/internal/metrics"
	"github.com/reeltube/reeltube/internal/service"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ReelTube Server\nVersion: %s\nBuild Time: %s\nGit Commit: %s\n",
			Version, BuildTime, GitCommit)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	logger.Info().
		Str("version", Version).
		Str("git_commit", GitCommit).
		Str("driver", cfg.Database.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Msg("starting reeltube server")

	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backends, err := bootstrap.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backends.Close()

	tokens := auth.NewTokenManager(cfg.Auth)

	userSvc := service.NewUserService(backends.Repos.User, tokens, cfg.Auth.BcryptCost, logger)
	channelSvc := service.NewChannelService(backends.Repos.Channel, backends.Repos.Video, logger)
	videoSvc := service.NewVideoService(backends.Repos.Video, backends.Repos.Channel, backends.Locker, logger)
	commentSvc := service.NewCommentService(backends.Repos.Comment, backends.Repos.Video, logger)

	middlewares := []func(http.Handler) http.Handler{
		handler.RequestID,
		handler.RequestLogger(logger),
		handler.Recoverer(logger),
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
		middlewares = append(middlewares, m.Middleware)
	}
	middlewares = append(middlewares, handler.RateLimit(backends.Cache, cfg.RateLimit, logger))

	router := handler.NewRouter(handler.RouterConfig{
		Auth:        handler.NewAuthHandler(userSvc, logger),
		Channels:    handler.NewChannelHandler(channelSvc, logger),
		Videos:      handler.NewVideoHandler(videoSvc, logger),
		Comments:    handler.NewCommentHandler(commentSvc, logger),
		RequireAuth: auth.Middleware(tokens, true, logger),
		Middlewares: middlewares,
		Health:      healthHandler(backends),
		Logger:      logger,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      http.MaxBytesHandler(router, cfg.Server.MaxBodySize),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 2)

	var metricsSrv *http.Server
	if m != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, m.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler: mux,
		}
		go func() {
			logger.Info().Int("port", cfg.Metrics.Port).Str("path", cfg.Metrics.Path).Msg("metrics server listening")
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- fmt.Errorf("metrics server: %w", err)
			}
		}()
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("api server: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api server shutdown failed")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server shutdown failed")
		}
	}

	return nil
}

// healthHandler reports readiness; a failing database ping turns the
// endpoint into a 503 so load balancers stop routing here.
func healthHandler(b *bootstrap.Backends) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := b.DB.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","error":%q}`, err.Error())
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	}
}

func newLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	var out = os.Stdout
	if cfg.Output == "stderr" {
		out = os.Stderr
	}

	zerolog.TimeFieldFormat = cfg.TimeFormat

	if cfg.Format == "console" {
		return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
