package popularity

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter tracks per-item order popularity.
type Counter interface {
	// RecordOrder atomically bumps the item's order count and stamps
	// the last-ordered time.
	RecordOrder(ctx context.Context, menuItemID string, at time.Time) error
	OrderCount(ctx context.Context, menuItemID string) (int64, error)
}

type redisCounter struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) Counter {
	return &redisCounter{client: client}
}

func orderCountKey(itemID string) string  { return "popularity:item:" + itemID + ":orders" }
func lastOrderedKey(itemID string) string { return "popularity:item:" + itemID + ":last_ordered" }

func (c *redisCounter) RecordOrder(ctx context.Context, menuItemID string, at time.Time) error {
	pipe := c.client.Pipeline()
	pipe.Incr(ctx, orderCountKey(menuItemID))
	pipe.Set(ctx, lastOrderedKey(menuItemID), at.UTC().Format(time.RFC3339), 0)
	_, err := pipe.Exec(ctx)
	return err
}

func (c *redisCounter) OrderCount(ctx context.Context, menuItemID string) (int64, error) {
	n, err := c.client.Get(ctx, orderCountKey(menuItemID)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return n, err
}
