package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*rate.Limiter
	perSec   rate.Limit
	burst    int
}

// NewRateLimiter allows perSec sustained requests with the given burst per
// client.
func NewRateLimiter(perSec, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*rate.Limiter),
		perSec:  rate.Limit(perSec),
		burst:   burst,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.clients[ip]
	if !ok {
		l = rate.NewLimiter(rl.perSec, rl.burst)
		rl.clients[ip] = l
	}
	return l
}

// cleanup drops buckets that have refilled completely, meaning the client
// has been idle for a while.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		rl.mu.Lock()
		for ip, l := range rl.clients {
			if l.TokensAt(time.Now()) == float64(rl.burst) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Middleware rejects clients that exceed their budget with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiter(clientIP(r)).Allow() {
			w.Header().Set("Retry-After", "1")
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
