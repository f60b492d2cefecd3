package lookups_api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit allows perMinute requests per client IP per clock minute.
// Limiter errors let the request through.
func RateLimit(l Limiter, perMinute int64, now func() time.Time) func(http.Handler) http.Handler {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if l == nil || perMinute <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			key := clientKey(clientIP(r), now())
			ok, n, err := l.Allow(r.Context(), key, perMinute, time.Minute)
			if err != nil {
				slog.Warn("rate limiter unavailable", "err", err)
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.FormatInt(perMinute, 10))
			if !ok {
				slog.Info("client rate limited", "key", key, "count", n)
				w.Header().Set("Retry-After", "60")
				respondError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(ip string, t time.Time) string {
	return "rl:client:" + ip + ":" + t.UTC().Format("200601021504")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
