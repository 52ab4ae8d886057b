package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	limit   int
	window  time.Duration
}

type clientWindow struct {
	count   int
	resetAt time.Time
}

var limiter = &rateLimiter{
	clients: make(map[string]*clientWindow),
	limit:   100,
	window:  time.Minute,
}

func init() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			limiter.evictStale()
		}
	}()
}

// RateLimiter caps each client IP at a fixed request budget per window.
func RateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		limiter.mu.Lock()

		window, ok := limiter.clients[ip]
		if !ok || now.After(window.resetAt) {
			limiter.clients[ip] = &clientWindow{count: 1, resetAt: now.Add(limiter.window)}
			limiter.mu.Unlock()
			c.Next()
			return
		}

		if window.count >= limiter.limit {
			retryAfter := window.resetAt.Sub(now).Seconds()
			limiter.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter,
			})
			c.Abort()
			return
		}

		window.count++
		limiter.mu.Unlock()
		c.Next()
	}
}

func (rl *rateLimiter) evictStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, window := range rl.clients {
		if now.After(window.resetAt) {
			delete(rl.clients, ip)
		}
	}
}
