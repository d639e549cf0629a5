package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SendLimiter enforces the per-sender friend-request rate limit with a Redis
// sorted set per sender. Each send adds a member scored by its nanosecond
// timestamp; entries older than the window are trimmed before counting, so the
// window slides rather than resetting on a fixed boundary.
// Key format: sendlimit:<sender_id>
type SendLimiter struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewSendLimiter creates a SendLimiter wrapping the given Redis client.
func NewSendLimiter(client *redis.Client, limit int, window time.Duration) *SendLimiter {
	if limit <= 0 {
		limit = 3
	}
	if window <= 0 {
		window = time.Minute
	}
	return &SendLimiter{client: client, limit: limit, window: window}
}

// Reserve records a send attempt and reports whether the sender is under the
// limit. Trim, add, and count run in one pipeline, so two concurrent sends
// cannot both observe the pre-reservation count. A denied reservation removes
// its own member again: only sends that go on to create a row may count toward
// later checks.
func (l *SendLimiter) Reserve(ctx context.Context, senderID string) (bool, string, error) {
	now := time.Now()
	member := fmt.Sprintf("%d", now.UnixNano())
	key := l.key(senderID)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", now.Add(-l.window).UnixNano()))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, "", fmt.Errorf("send limit reserve: %w", err)
	}

	if card.Val() > int64(l.limit) {
		if err := l.client.ZRem(ctx, key, member).Err(); err != nil {
			return false, "", fmt.Errorf("send limit release: %w", err)
		}
		return false, "", nil
	}
	return true, member, nil
}

// Forget releases a reservation whose send did not result in a ledger row.
func (l *SendLimiter) Forget(ctx context.Context, senderID, member string) error {
	if err := l.client.ZRem(ctx, l.key(senderID), member).Err(); err != nil {
		return fmt.Errorf("send limit forget: %w", err)
	}
	return nil
}

func (l *SendLimiter) key(senderID string) string {
	return "sendlimit:" + senderID
}
