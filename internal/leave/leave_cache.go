package leave

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go-leave/internal/role"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const PendingKeyPrefix = "leaves:pending:"

// PendingCacheKey is the base key of one approver's cached pending list.
func PendingCacheKey(approver role.Role, code string) string {
	return PendingKeyPrefix + string(approver) + ":" + code
}

// PendingVersionKey counts invalidations of one approver's pending list.
func PendingVersionKey(approver role.Role, code string) string {
	return PendingCacheKey(approver, code) + ":version"
}

// PendingDataKey holds the list loaded while the version was version. A load
// that raced an invalidation writes under the old version, which no reader
// asks for again.
func PendingDataKey(approver role.Role, code string, version int64) string {
	return PendingCacheKey(approver, code) + ":v" + strconv.FormatInt(version, 10)
}

type pendingCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func (c *pendingCache) enabled() bool {
	return c != nil && c.rdb != nil && c.ttl > 0
}

// version reports the current invalidation count, or false when the cache
// must be bypassed.
func (c *pendingCache) version(ctx context.Context, approver role.Role, code string) (int64, bool) {
	if !c.enabled() {
		return 0, false
	}
	key := PendingVersionKey(approver, code)
	v, err := c.rdb.Get(ctx, key).Int64()
	switch {
	case err == redis.Nil:
		return 0, true
	case err != nil:
		c.logger.Warn("pending cache version read failed", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	return v, true
}

func (c *pendingCache) get(ctx context.Context, key string) ([]LeaveResponse, bool) {
	cached, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("pending cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var resp []LeaveResponse
	if json.Unmarshal([]byte(cached), &resp) != nil {
		return nil, false
	}
	return resp, true
}

func (c *pendingCache) set(ctx context.Context, key string, resp []LeaveResponse) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("pending cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// invalidate bumps the version of every approver the record routes to.
func (c *pendingCache) invalidate(ctx context.Context, l LeaveRecord) {
	if !c.enabled() {
		return
	}
	for _, r := range ApproverRoles(l.Channel) {
		code := l.ScopeCode(r)
		if code == "" {
			continue
		}
		key := PendingVersionKey(r, code)
		if err := c.rdb.Incr(ctx, key).Err(); err != nil {
			c.logger.Warn("pending cache invalidation failed", zap.String("key", key), zap.Error(err))
		}
	}
}
