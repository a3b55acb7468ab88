// Package queue is a FIFO of pending job identifiers on top of the
// external store's list primitive.
package queue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/syla/execution-service/internal/apierr"
)

// CanonicalKey is the single queue key both front doors share. Earlier
// revisions had the RPC path write "syla:execution:queue" while the HTTP
// path wrote "execution_queue"; both now converge on this name.
const CanonicalKey = "syla:execution:queue"

// ErrEmpty is returned by Pop when the queue has no entries.
var ErrEmpty = errors.New("queue: empty")

// Queue is the pending-id FIFO contract the worker loop pops from.
type Queue interface {
	Push(ctx context.Context, id uuid.UUID) error
	Pop(ctx context.Context) (uuid.UUID, error)
	Length(ctx context.Context) (int64, error)
}

// RedisQueue implements Queue with LPUSH (tail append) / RPOP (head
// removal, non-blocking) / LLEN over a single named Redis list.
type RedisQueue struct {
	client *redis.Client
	key    string
}

// NewRedisQueue wraps client with the canonical queue key.
func NewRedisQueue(client *redis.Client) *RedisQueue {
	return &RedisQueue{client: client, key: CanonicalKey}
}

// Push appends id to the tail of the queue.
func (q *RedisQueue) Push(ctx context.Context, id uuid.UUID) error {
	if err := q.client.LPush(ctx, q.key, id.String()).Err(); err != nil {
		return apierr.Store("redis LPUSH", err)
	}
	return nil
}

// Pop removes and returns the head of the queue, non-blocking. It returns
// ErrEmpty rather than blocking when the queue has no entries, so the
// worker loop owns its own sleep-and-retry policy.
func (q *RedisQueue) Pop(ctx context.Context) (uuid.UUID, error) {
	val, err := q.client.RPop(ctx, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrEmpty
	}
	if err != nil {
		return uuid.Nil, apierr.Store("redis RPOP", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, apierr.Internal("invalid job id popped from queue", err)
	}
	return id, nil
}

// Length reports the current queue depth.
func (q *RedisQueue) Length(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, apierr.Store("redis LLEN", err)
	}
	return n, nil
}
