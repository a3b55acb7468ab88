package store

import (
	"context"
	"encoding/json"
	"errors"
	"math"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/model"
)

const jobKeyPrefix = "job:"

// RedisStore is the authoritative Store implementation: SET/GET on
// job:<id>, SCAN over the keyspace for List. Put overwrites unconditionally.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore wraps an existing pooled client. The client itself
// serializes concurrent callers behind its internal connection pool,
// which is why no extra mutex is introduced here.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func jobKey(id uuid.UUID) string {
	return jobKeyPrefix + id.String()
}

// Put serializes job to JSON and overwrites job:<id>.
func (s *RedisStore) Put(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return apierr.Serialization("encode job", err)
	}
	if err := s.client.Set(ctx, jobKey(job.ID), data, 0).Err(); err != nil {
		return apierr.Store("redis SET", err)
	}
	return nil
}

// Get reads and decodes job:<id>, returning apierr.NotFound when absent.
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apierr.NotFound("job not found: " + id.String())
	}
	if err != nil {
		return nil, apierr.Store("redis GET", err)
	}

	var job model.Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, apierr.Serialization("decode job", err)
	}
	return &job, nil
}

// List scans the job:* keyspace, applies the owner/workspace filters and
// the pagination clamps. This path is not performance-critical.
func (s *RedisStore) List(ctx context.Context, filter model.ListFilter) (*model.Page, error) {
	filter.ClampPage()

	var matched []*model.Job
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, jobKeyPrefix+"*", 200).Result()
		if err != nil {
			return nil, apierr.Store("redis SCAN", err)
		}
		for _, key := range keys {
			data, err := s.client.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				continue // raced with a deletion; store never deletes records itself but be defensive
			}
			if err != nil {
				return nil, apierr.Store("redis GET during scan", err)
			}
			var job model.Job
			if err := json.Unmarshal(data, &job); err != nil {
				return nil, apierr.Serialization("decode job during scan", err)
			}
			if filter.Owner != "" && job.Owner != filter.Owner {
				continue
			}
			if filter.Workspace != "" && job.Workspace != filter.Workspace {
				continue
			}
			matched = append(matched, &job)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}

	total := len(matched)
	start := (filter.PageNumber - 1) * filter.PageSize
	end := start + filter.PageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	totalPages := 0
	if filter.PageSize > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(filter.PageSize)))
	}

	return &model.Page{
		Jobs:       matched[start:end],
		Total:      total,
		Size:       filter.PageSize,
		Number:     filter.PageNumber,
		TotalPages: totalPages,
	}, nil
}
