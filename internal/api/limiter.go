package api

import (
	"net"
	"net/http"
	"sync"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

// maxLimiters bounds the per-address map; past it the map starts over.
const maxLimiters = 10000

// loginLimiter throttles login attempts per client address.
type loginLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	return &loginLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

func (l *loginLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLimiters {
			l.limiters = make(map[string]*rate.Limiter)
		}
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// clientKey is the peer address of the request. It only reflects proxy
// headers when the router was built with TrustProxy.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (l *loginLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		if !l.get(key).Allow() {
			hlog.FromRequest(r).Warn().Str("client", key).Msg("login rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Muitas tentativas de login, aguarde um instante", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
