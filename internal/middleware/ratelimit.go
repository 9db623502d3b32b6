package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"learnhub/internal/qerrors"

	"golang.org/x/time/rate"
)

// visitor wraps a limiter and when it was last used, for periodic cleanup.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit allows each client maxRequests per window, with bursts up to maxRequests. Clients
// are keyed by keyFn, falling back to the remote IP when it returns "".
func RateLimit(maxRequests int, window time.Duration, keyFn func(r *http.Request) string) func(handler http.Handler) http.Handler {
	if maxRequests <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	var mu sync.Mutex
	visitors := make(map[string]*visitor)
	lastSweep := time.Now()
	expiry := window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	every := rate.Every(window / time.Duration(maxRequests))

	limiterFor := func(key string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastSweep) > time.Minute {
			for k, v := range visitors {
				if now.Sub(v.lastSeen) > expiry {
					delete(visitors, k)
				}
			}
			lastSweep = now
		}

		v, ok := visitors[key]
		if !ok {
			v = &visitor{limiter: rate.NewLimiter(every, maxRequests)}
			visitors[key] = v
		}
		v.lastSeen = now
		return v.limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := ""
			if keyFn != nil {
				key = keyFn(r)
			}
			if key == "" {
				key = clientIP(r)
			}

			if !limiterFor(key).Allow() {
				w.Header().Set("Retry-After", "1")
				qerrors.Render(w, r, qerrors.RateLimitedError)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
