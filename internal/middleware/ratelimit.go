package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/tableside/tableside/internal/session"
)

// LoginRateLimitConfig holds configuration for login throttling.
type LoginRateLimitConfig struct {
	Logger   *slog.Logger
	Sessions *session.Store
	Enabled  bool
	// PerMinute is the sustained number of attempts allowed per IP.
	PerMinute int
	// Burst is the bucket capacity for short spikes.
	Burst int
}

// LoginRateLimit returns middleware that throttles login attempts per IP
// to slow down credential stuffing. The check fails open on Redis errors.
func LoginRateLimit(cfg LoginRateLimitConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			ip := clientIP(r)
			result, err := cfg.Sessions.CheckLoginRateLimit(r.Context(), ip, cfg.PerMinute, cfg.Burst)
			if err != nil {
				cfg.Logger.Error("login rate limit check failed",
					slog.String("error", err.Error()),
					slog.String("ip", ip),
				)
				next.ServeHTTP(w, r)
				return
			}

			if !result.Allowed {
				cfg.Logger.Warn("login rate limit exceeded",
					slog.String("ip", ip),
					slog.Int64("retry_after_seconds", int64(result.RetryAfter.Seconds())),
					slog.String("request_id", GetRequestID(r.Context())),
				)

				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				http.Error(w, "Too many login attempts, please try again shortly.", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the remote address without the port. The RealIP
// middleware has already resolved proxy headers by the time this runs.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
