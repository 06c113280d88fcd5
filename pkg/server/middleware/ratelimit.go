package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter applies a per-client token bucket to the admin API. Clients
// are keyed by IP; X-Forwarded-For is honored only when the immediate peer
// is a trusted proxy.
type RateLimiter struct {
	perSecond    rate.Limit
	burst        int
	trustedProxy func(ip string) bool

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. trustedProxy may be nil, in which case
// X-Forwarded-For is never honored.
func NewRateLimiter(perSecond float64, burst int, trustedProxy func(ip string) bool) *RateLimiter {
	rl := &RateLimiter{
		perSecond:    rate.Limit(perSecond),
		burst:        burst,
		trustedProxy: trustedProxy,
		clients:      make(map[string]*clientLimiter),
	}
	go rl.cleanup()
	return rl
}

// cleanup evicts client buckets idle for more than three minutes.
func (rl *RateLimiter) cleanup() {
	for {
		time.Sleep(time.Minute)
		rl.mu.Lock()
		for ip, c := range rl.clients {
			if time.Since(c.lastSeen) > 3*time.Minute {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// ClientIP resolves the client address for rate limiting.
func (rl *RateLimiter) ClientIP(r *http.Request) string {
	peer, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		peer = r.RemoteAddr
	}

	if rl.trustedProxy != nil && rl.trustedProxy(peer) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			// Leftmost entry is the original client
			first, _, _ := strings.Cut(forwarded, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	return peer
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.perSecond, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// Middleware rejects clients exceeding their rate with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(rl.ClientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}
