package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/BruksfildServices01/care-marketplace/internal/httperr"
)

type ipLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter limita requisições por IP. Usado no login.
type RateLimiter struct {
	rate    rate.Limit
	burst   int
	cleanup time.Duration

	mu       sync.Mutex
	limiters map[string]*ipLimiter

	stopCh chan struct{}
	once   sync.Once
}

// NewRateLimiter aceita perMinute requisições por minuto com rajada do
// mesmo tamanho e limpa entradas ociosas em segundo plano.
func NewRateLimiter(perMinute int, cleanup time.Duration) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}

	rl := &RateLimiter{
		rate:     rate.Limit(float64(perMinute) / 60.0),
		burst:    perMinute,
		cleanup:  cleanup,
		limiters: make(map[string]*ipLimiter),
		stopCh:   make(chan struct{}),
	}

	go rl.cleanupLoop()
	return rl
}

func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !rl.get(ip).Allow() {
			retry := int(math.Ceil(1.0 / float64(rl.rate)))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			httperr.AbortWith(c, http.StatusTooManyRequests, "rate_limit_exceeded", "Muitas tentativas. Aguarde e tente novamente.")

			slog.Warn("rate limit exceeded", slog.String("ip", ip), slog.String("path", c.FullPath()))
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) Count() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if l, ok := rl.limiters[ip]; ok {
		l.lastAccess = time.Now()
		return l.limiter
	}

	l := &ipLimiter{
		limiter:    rate.NewLimiter(rl.rate, rl.burst),
		lastAccess: time.Now(),
	}
	rl.limiters[ip] = l
	return l.limiter
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanup)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.evict(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// evict remove IPs sem acesso há mais de duas janelas de limpeza.
func (rl *RateLimiter) evict(now time.Time) {
	ttl := rl.cleanup * 2

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, l := range rl.limiters {
		if now.Sub(l.lastAccess) > ttl {
			delete(rl.limiters, ip)
		}
	}
}
