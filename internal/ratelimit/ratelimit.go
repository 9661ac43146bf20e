// Package ratelimit throttles contact submissions and SSH sessions per
// client IP with a token bucket.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/gin-gonic/gin"
)

type bucket struct {
	tokens float64
	last   time.Time
}

type Limiter struct {
	ratePerSecond float64
	burst         float64

	mu      sync.Mutex
	buckets map[string]bucket
}

// New allows limitPerMinute events per key with bursts up to burst.
func New(limitPerMinute, burst int) *Limiter {
	if limitPerMinute <= 0 {
		limitPerMinute = 30
	}
	if burst <= 0 {
		burst = 10
	}
	return &Limiter{
		ratePerSecond: float64(limitPerMinute) / 60.0,
		burst:         float64(burst),
		buckets:       make(map[string]bucket),
	}
}

func (l *Limiter) Allow(key string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buckets[key]
	if b.last.IsZero() {
		b = bucket{tokens: l.burst, last: now}
	}

	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.ratePerSecond
		if b.tokens > l.burst {
			b.tokens = l.burst
		}
		b.last = now
	}

	if b.tokens < 1 {
		l.buckets[key] = b
		return false
	}
	b.tokens--
	l.buckets[key] = b
	return true
}

// Sweep forgets keys whose bucket has refilled completely, returning how
// many were dropped.
func (l *Limiter) Sweep(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, b := range l.buckets {
		refilled := b.tokens + now.Sub(b.last).Seconds()*l.ratePerSecond
		if refilled >= l.burst {
			delete(l.buckets, key)
			dropped++
		}
	}
	return dropped
}

// Gin rejects over-limit requests with 429. reject renders the response so
// HTMX callers can get a fragment instead of JSON.
func Gin(l *Limiter, logger *log.Logger, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if l.Allow(ip, time.Now().UTC()) {
			c.Next()
			return
		}
		logger.Warn("rate_limit_throttled", "remote_ip", ip, "path", c.Request.URL.Path)
		if reject != nil {
			reject(c)
		} else {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		}
		c.Abort()
	}
}

// Wish closes SSH sessions from clients over the limit.
func Wish(l *Limiter, logger *log.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(s ssh.Session) {
			ip := remoteIP(s.RemoteAddr())
			if !l.Allow(ip, time.Now().UTC()) {
				logger.Warn("rate_limit_throttled", "remote_ip", ip, "transport", "ssh")
				wish.Println(s, "rate limit exceeded")
				return
			}
			next(s)
		}
	}
}

func remoteIP(remote net.Addr) string {
	if remote == nil {
		return "unknown"
	}
	host, _, err := net.SplitHostPort(remote.String())
	if err != nil {
		return remote.String()
	}
	if host == "" {
		return "unknown"
	}
	return host
}
