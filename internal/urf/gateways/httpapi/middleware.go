package httpapi

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter shapes request rates with a token bucket per client IP.
// Idle buckets are dropped after ttl so the map cannot grow unbounded.
type rateLimiter struct {
	rps   float64
	burst int
	ttl   time.Duration

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	done     chan struct{}
}

type bucket struct {
	lim  *rate.Limiter
	last time.Time
}

// newRateLimiter returns a limiter; rps <= 0 disables limiting entirely.
func newRateLimiter(rps float64, burst int, ttl time.Duration) *rateLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = int(rps)
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	rl := &rateLimiter{
		rps:     rps,
		burst:   burst,
		ttl:     ttl,
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// stop terminates the sweep goroutine. Safe on a nil receiver and safe
// to call more than once.
func (rl *rateLimiter) stop() {
	if rl == nil {
		return
	}
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow reports whether the client may proceed.
func (rl *rateLimiter) allow(clientIP string) bool {
	now := time.Now()
	rl.mu.Lock()
	b, ok := rl.buckets[clientIP]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(rl.rps), rl.burst)}
		rl.buckets[clientIP] = b
	}
	b.last = now
	rl.mu.Unlock()
	return b.lim.Allow()
}

// sweep drops buckets idle longer than ttl until stop is called.
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(rl.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-rl.done:
			return
		case <-ticker.C:
			cut := time.Now().Add(-rl.ttl)
			rl.mu.Lock()
			for ip, b := range rl.buckets {
				if b.last.Before(cut) {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// limit wraps next with per-IP rate limiting. A nil receiver passes
// everything through.
func (rl *rateLimiter) limit(metrics *Metrics, next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			metrics.rateLimited.Inc()
			http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP extracts the remote IP, falling back to the whole RemoteAddr
// when it carries no port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
