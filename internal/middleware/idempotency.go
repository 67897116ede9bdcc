package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-payroll/internal/shared/apperror"
	"go-payroll/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	IdempotencyHeader = "Idempotency-Key"

	idempotencyLockTTL  = 30 * time.Second
	idempotencyCacheTTL = 24 * time.Hour

	ctxIdempotencyCacheKey = "idempotency_cache_key"
	ctxIdempotencyLockKey  = "idempotency_lock_key"
)

// Idempotency replays the stored response of a POST that already completed
// with the same Idempotency-Key, and rejects a duplicate that arrives while
// the first is still running. Handlers finish the protocol with
// CompleteIdempotent.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader(IdempotencyHeader)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), c.GetString("user_id_validated"), idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var data json.RawMessage
			if json.Unmarshal([]byte(cached), &data) == nil {
				c.AbortWithStatusJSON(http.StatusOK, response.ApiEnvelope{Ok: true, Data: data})
				return
			}
		}

		acquired, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			zap.L().Named("middleware.idempotency").Warn("idempotency lock unavailable, continuing",
				zap.String("key", lockKey),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !acquired {
			response.Abort(c, apperror.ErrRequestInProgress.HTTPStatus, apperror.ErrRequestInProgress.Code, apperror.ErrRequestInProgress.Message)
			return
		}

		c.Set(ctxIdempotencyCacheKey, cacheKey)
		c.Set(ctxIdempotencyLockKey, lockKey)
		c.Next()
	}
}

// CompleteIdempotent releases the in-flight lock and, when data is not nil,
// stores it as the replay for the key. Safe to call on routes without the
// middleware.
func CompleteIdempotent(c *gin.Context, rdb *redis.Client, data any) {
	if rdb == nil {
		return
	}
	ctx := c.Request.Context()

	if lockKey := c.GetString(ctxIdempotencyLockKey); lockKey != "" {
		_ = rdb.Del(ctx, lockKey).Err()
	}

	cacheKey := c.GetString(ctxIdempotencyCacheKey)
	if cacheKey == "" || data == nil {
		return
	}
	if payload, err := json.Marshal(data); err == nil {
		_ = rdb.Set(ctx, cacheKey, payload, idempotencyCacheTTL).Err()
	}
}
