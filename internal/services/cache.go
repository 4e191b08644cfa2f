package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/staywellhq/staywell-backend/pkg/utils"
)

// Blocked-range entries are short lived; the cache only has to absorb
// bursts of availability lookups on popular rooms.
const blockedRangesTTL = 5 * time.Minute

// Cache wraps the Redis client used for availability lookups. It is
// constructed once at startup and passed to the handlers that need it.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis and verifies the connection.
func NewCache(redisURL string) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opt)
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &Cache{client: client}, nil
}

func roomBlockedKey(roomID uint) string {
	return fmt.Sprintf("room:blocked:%d", roomID)
}

// SetRoomBlockedRanges stores a room's blocked date ranges.
func (c *Cache) SetRoomBlockedRanges(ctx context.Context, roomID uint, ranges []utils.DateRange) error {
	data, err := json.Marshal(ranges)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomBlockedKey(roomID), data, blockedRangesTTL).Err()
}

// GetRoomBlockedRanges retrieves a room's blocked date ranges. The
// second return value is false on a cache miss.
func (c *Cache) GetRoomBlockedRanges(ctx context.Context, roomID uint) ([]utils.DateRange, bool, error) {
	data, err := c.client.Get(ctx, roomBlockedKey(roomID)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var ranges []utils.DateRange
	if err := json.Unmarshal([]byte(data), &ranges); err != nil {
		return nil, false, err
	}
	return ranges, true, nil
}

// InvalidateRoom drops the cached ranges after any booking or room
// change that could affect availability.
func (c *Cache) InvalidateRoom(ctx context.Context, roomID uint) error {
	return c.client.Del(ctx, roomBlockedKey(roomID)).Err()
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
