package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"timeline-service/internal/model"
)

// TimelineCache keeps a JSON snapshot of each timeline's milestone list in
// redis. Every mutation drops the snapshot, so a stale list survives at most
// one TTL after a missed invalidation. Redis being down degrades to a miss,
// never to a failed request.
type TimelineCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewTimelineCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *TimelineCache {
	return &TimelineCache{rdb: rdb, ttl: ttl, logger: logger}
}

func key(timelineID int) string {
	return fmt.Sprintf("timeline:%d:milestones", timelineID)
}

func (c *TimelineCache) GetMilestones(ctx context.Context, timelineID int) ([]*model.Milestone, bool) {
	data, err := c.rdb.Get(ctx, key(timelineID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("Timeline cache read failed", zap.Int("timeline_id", timelineID), zap.Error(err))
		}
		return nil, false
	}
	var milestones []*model.Milestone
	if err := json.Unmarshal(data, &milestones); err != nil {
		c.logger.Warn("Timeline cache decode failed", zap.Int("timeline_id", timelineID), zap.Error(err))
		return nil, false
	}
	return milestones, true
}

func (c *TimelineCache) SetMilestones(ctx context.Context, timelineID int, milestones []*model.Milestone) {
	data, err := json.Marshal(milestones)
	if err != nil {
		c.logger.Warn("Timeline cache encode failed", zap.Int("timeline_id", timelineID), zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, key(timelineID), data, c.ttl).Err(); err != nil {
		c.logger.Warn("Timeline cache write failed", zap.Int("timeline_id", timelineID), zap.Error(err))
	}
}

func (c *TimelineCache) Invalidate(ctx context.Context, timelineID int) {
	if err := c.rdb.Del(ctx, key(timelineID)).Err(); err != nil {
		c.logger.Warn("Timeline cache invalidation failed", zap.Int("timeline_id", timelineID), zap.Error(err))
	}
}
