package http

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"go-shortview/pkg/problemdetails"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterIdleTimeout     = time.Hour
)

// entry holds a rate limiter and last seen timestamp for cleanup
type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter provides per-IP rate limiting
type RateLimiter struct {
	limiters  map[string]*entry
	mu        sync.Mutex
	rateLimit rate.Limit
	burst     int
	stop      chan struct{}
	stopOnce  sync.Once
	done      chan struct{}
}

// NewRateLimiter creates a new rate limiter with the given requests per minute.
// Call Stop to end the cleanup goroutine.
func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	if requestsPerMinute < 1 {
		requestsPerMinute = 1
	}
	rl := &RateLimiter{
		limiters:  make(map[string]*entry),
		rateLimit: rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:     requestsPerMinute,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// getLimiter returns the rate limiter for the given IP, creating one if it doesn't exist
func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, exists := rl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(rl.rateLimit, rl.burst)
		rl.limiters[ip] = &entry{
			limiter:  limiter,
			lastSeen: time.Now(),
		}
		return limiter
	}

	e.lastSeen = time.Now()
	return e.limiter
}

// Middleware returns a middleware that enforces rate limiting per connection address
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}

		limiter := rl.getLimiter(ip)
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))

		if !limiter.Allow() {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10))

			writeProblem(w, problemdetails.New(
				http.StatusTooManyRequests,
				problemdetails.TypeRateLimitExceeded,
				"Rate Limit Exceeded",
				"Too many requests. Please try again later.",
			))
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) cleanupLoop() {
	defer close(rl.done)

	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, e := range rl.limiters {
				if time.Since(e.lastSeen) > limiterIdleTimeout {
					delete(rl.limiters, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop ends the cleanup goroutine and waits for it.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
	<-rl.done
}

// LoggerMiddleware returns a middleware that logs HTTP requests using Zap
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.Int("status", ww.Status()),
					zap.Int("bytes", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("request_id", middleware.GetReqID(r.Context())),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
