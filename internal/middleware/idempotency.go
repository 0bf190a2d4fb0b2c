package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	IdempotencyResultKey = "idempotency_result"

	idempotencyLockTTL = 30 * time.Second
)

type cachedResult struct {
	Status int             `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// Idempotency replays the first successful response for a repeated
// Idempotency-Key and rejects a duplicate that arrives while the first is
// still running. Handlers publish their payload with c.Set(IdempotencyResultKey, v).
func Idempotency(rdb *redis.Client, ttl time.Duration, logger ...*zap.Logger) gin.HandlerFunc {
	l := zap.L().Named("middleware.idempotency")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("middleware.idempotency")
	}

	return func(c *gin.Context) {
		idempKey := c.GetHeader(HeaderIdempotencyKey)
		if rdb == nil || idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		code := c.GetString(ContextEmployeeCode)
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), code, idempKey)
		lockKey := cacheKey + ":lock"

		if val, err := rdb.Get(ctx, cacheKey).Result(); err == nil {
			var cached cachedResult
			if json.Unmarshal([]byte(val), &cached) == nil {
				l.Debug("idempotent replay", zap.String("key", cacheKey))
				c.Header("Idempotent-Replayed", "true")
				response.Success(c, cached.Status, cached.Data, nil)
				c.Abort()
				return
			}
		}

		isNew, err := rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			// redis trouble should not block submissions
			l.Warn("idempotency lock failed", zap.String("key", lockKey), zap.Error(err))
			c.Next()
			return
		}
		if !isNew {
			response.Abort(c, http.StatusConflict, "PROCESSING", "Your request is still being processed, please wait.")
			return
		}
		defer rdb.Del(ctx, lockKey)

		c.Next()

		status := c.Writer.Status()
		v, ok := c.Get(IdempotencyResultKey)
		if !ok || status < 200 || status >= 300 {
			return
		}
		data, err := json.Marshal(v)
		if err != nil {
			return
		}
		payload, _ := json.Marshal(cachedResult{Status: status, Data: data})
		if err := rdb.Set(ctx, cacheKey, payload, ttl).Err(); err != nil {
			l.Warn("idempotency store failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}
