package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiter throttles requests per client IP using token buckets. Buckets
// idle for more than ten minutes are dropped by a background sweep.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	stop    chan struct{}
}

type bucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	perSecond  float64
	lastRefill time.Time
}

// NewRateLimiter starts the sweep goroutine. Call Stop on shutdown.
func NewRateLimiter(sweepInterval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		stop:    make(chan struct{}),
	}
	go rl.sweep(sweepInterval)
	return rl
}

// Stop terminates the sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stop)
}

// Limit caps requests at maxPerMinute per remote address. Rejected requests
// get a 429 with a Retry-After hint.
func (rl *RateLimiter) Limit(maxPerMinute int) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := rl.bucketFor(r.RemoteAddr, maxPerMinute)
			if !b.take() {
				retryAfter := int(60.0/float64(maxPerMinute)) + 1
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) bucketFor(key string, maxPerMinute int) *bucket {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		capacity := float64(maxPerMinute)
		b = &bucket{
			tokens:     capacity,
			capacity:   capacity,
			perSecond:  capacity / 60.0,
			lastRefill: time.Now(),
		}
		rl.buckets[key] = b
	}
	return b
}

func (b *bucket) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	b.tokens += now.Sub(b.lastRefill).Seconds() * b.perSecond
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-10 * time.Minute)
			rl.mu.Lock()
			for key, b := range rl.buckets {
				b.mu.Lock()
				idle := b.lastRefill.Before(cutoff)
				b.mu.Unlock()
				if idle {
					delete(rl.buckets, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}
