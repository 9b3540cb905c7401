package handler

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reeltube/reeltube/internal/config"
	"github.com/reeltube/reeltube/internal/repository"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns a UUID to every request, honoring one supplied by
// an upstream proxy.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestLogger logs one structured line per request.
func RequestLogger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info().
				Str("request_id", w.Header().Get(requestIDHeader)).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Str("remote", clientIP(r)).
				Msg("request")
		})
	}
}

// Recoverer converts panics into 500 responses instead of dropped
// connections.
func Recoverer(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("path", r.URL.Path).
						Msg("panic recovered")
					writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit enforces a fixed-window per-IP request budget on top of the
// cache's atomic counters. With Redis the window is shared by all
// replicas; with the in-process cache it is per instance.
func RateLimit(cache repository.Cache, cfg config.RateLimitConfig, logger zerolog.Logger) func(http.Handler) http.Handler {
	log := logger.With().Str("component", "rate_limit").Logger()

	return func(next http.Handler) http.Handler {
		if !cfg.Enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			window := time.Now().Unix() / 60
			key := fmt.Sprintf("ratelimit:%s:%d", clientIP(r), window)

			count, err := cache.Increment(r.Context(), key, 1)
			if err != nil {
				// The limiter must never take the API down with it.
				log.Warn().Err(err).Msg("rate limit counter unavailable")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := cache.Expire(r.Context(), key, 2*time.Minute); err != nil {
					log.Warn().Err(err).Msg("failed to set rate limit window expiry")
				}
			}
			if count > cfg.RequestsPerMinute {
				writeMessage(w, http.StatusTooManyRequests, "Too many requests, slow down")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP extracts the caller's IP, trusting X-Forwarded-For when set.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
