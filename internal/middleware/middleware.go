package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	sweepEvery = time.Minute
	staleAfter = 10 * time.Minute
)

type clientState struct {
	windowStart time.Time
	count       int
	lastSeen    time.Time
}

// RateLimiter allows each client a fixed number of requests per window,
// keyed by the X-Client-ID header. Clients idle longer than staleAfter are
// evicted so the state map stays bounded.
type RateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientState
	window    time.Duration
	burst     int
	lastSweep time.Time
}

func NewRateLimiter(window time.Duration, burst int) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		clients:   make(map[string]*clientState),
		window:    window,
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (r *RateLimiter) allow(clientID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if now.Sub(r.lastSweep) > sweepEvery {
		r.sweep(now)
	}

	st := r.clients[clientID]
	if st == nil {
		st = &clientState{windowStart: now}
		r.clients[clientID] = st
	}
	st.lastSeen = now

	if now.Sub(st.windowStart) >= r.window {
		st.windowStart = now
		st.count = 0
	}
	if st.count >= r.burst {
		return false
	}
	st.count++
	return true
}

// sweep drops clients not seen since staleAfter. Called with the mutex held.
func (r *RateLimiter) sweep(now time.Time) {
	for id, st := range r.clients {
		if now.Sub(st.lastSeen) > staleAfter {
			delete(r.clients, id)
		}
	}
	r.lastSweep = now
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Client-ID header required"})
			c.Abort()
			return
		}
		if !r.allow(clientID, time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}
