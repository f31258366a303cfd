package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
)

type ipRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	r        rate.Limit
	b        int
}

func (i *ipRateLimiter) get(key string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, ok := i.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(i.r, i.b)
		i.limiters[key] = limiter
	}
	return limiter
}

// RateLimitByIP caps request throughput per client IP. Batch endpoints are
// expensive; a runaway client replaying them should get 429s, not a queue.
func RateLimitByIP(r rate.Limit, b int) gin.HandlerFunc {
	limiter := &ipRateLimiter{limiters: make(map[string]*rate.Limiter), r: r, b: b}
	return func(c *gin.Context) {
		if !limiter.get(c.ClientIP()).Allow() {
			response.Error(c, http.StatusTooManyRequests, apperror.CodeServiceUnavailable,
				"too many requests from this address", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
