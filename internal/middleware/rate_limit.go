package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
	clock    clockwork.Clock
}

// Limit throttles each caller, keyed by identity when present and by remote IP otherwise.
// The cleanup loop stops when ctx is done.
func Limit(ctx context.Context, rps, burst int, ttl time.Duration, clock clockwork.Clock, logger *slog.Logger) func(http.Handler) http.Handler {
	l := newRateLimiter(rps, burst, ttl, clock)

	go l.cleanupVisitors(ctx, logger)

	return l.LimitMiddleware(logger)
}

func newRateLimiter(rps, burst int, ttl time.Duration, clock clockwork.Clock) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
		clock:    clock,
	}
}

func (l *rateLimiter) getVisitor(key string) *rate.Limiter {
	l.Lock()
	defer l.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.clock.Now()
	return v.limiter
}

func (l *rateLimiter) sweep() int {
	l.Lock()
	defer l.Unlock()

	removed := 0
	for key, v := range l.visitors {
		if l.clock.Since(v.lastSeen) > l.ttl {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}

func (l *rateLimiter) cleanupVisitors(ctx context.Context, logger *slog.Logger) {
	ticker := l.clock.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if n := l.sweep(); n > 0 {
				logger.Debug("rate limiter visitors evicted", slog.Int("count", n))
			}
		}
	}
}

func (l *rateLimiter) LimitMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := CallerID(r.Context())
			if key == "" {
				ip, _, err := net.SplitHostPort(r.RemoteAddr)
				if err != nil {
					logger.Error("Rate limiter IP parse error", slog.String("error", err.Error()))
					http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
					return
				}
				key = "ip:" + ip
			} else {
				key = "caller:" + key
			}

			if !l.getVisitor(key).Allow() {
				logger.Warn("Rate limit exceeded", slog.String("key", key))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
