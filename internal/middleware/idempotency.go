package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"
)

// Idempotency guards POST calculation endpoints against double submits. The
// ledger is already idempotent per period, but a replayed batch request would
// still redo a full run's worth of work; a short Redis lock per
// Idempotency-Key rejects the duplicate while the first request is in flight.
func Idempotency(rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("middleware.idempotency")
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		lockKey := fmt.Sprintf("idemp:%s:%s:lock", c.FullPath(), idempKey)

		acquired, err := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if err != nil {
			// Redis being down must not block payroll; proceed without the guard.
			log.Warn("idempotency lock unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !acquired {
			response.Error(c, http.StatusConflict, apperror.CodeConflict,
				"an identical request is still being processed", nil)
			c.Abort()
			return
		}

		c.Set("idempotency_lock_key", lockKey)
		c.Next()

		if err := rdb.Del(c.Request.Context(), lockKey).Err(); err != nil {
			log.Warn("idempotency lock release failed",
				zap.String("lock_key", lockKey),
				zap.Error(err),
			)
		}
	}
}
