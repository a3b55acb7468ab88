package store

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/model"
)

func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client)
}

func TestPutGetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	job := model.New(model.Request{Code: "x", Language: "python"}, "alice", "ws1")
	require.NoError(t, s.Put(ctx, job))

	got, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, job.Owner, got.Owner)
	assert.Equal(t, model.StatusPending, got.Status)
}

func TestGetMissingReturnsNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Get(context.Background(), uuid.New())
	assert.True(t, apierr.IsNotFound(err))
}

func TestListFiltersByOwnerAndWorkspace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	aliceJob := model.New(model.Request{Language: "go"}, "alice", "ws1")
	bobJob := model.New(model.Request{Language: "go"}, "bob", "ws1")
	aliceOtherWs := model.New(model.Request{Language: "go"}, "alice", "ws2")

	require.NoError(t, s.Put(ctx, aliceJob))
	require.NoError(t, s.Put(ctx, bobJob))
	require.NoError(t, s.Put(ctx, aliceOtherWs))

	page, err := s.List(ctx, model.ListFilter{Owner: "alice", Workspace: "ws1"})
	require.NoError(t, err)
	require.Len(t, page.Jobs, 1)
	assert.Equal(t, aliceJob.ID, page.Jobs[0].ID)
}

func TestListPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 25; i++ {
		job := model.New(model.Request{Language: "go"}, "alice", "ws1")
		require.NoError(t, s.Put(ctx, job))
	}

	page, err := s.List(ctx, model.ListFilter{PageSize: 10, PageNumber: 1})
	require.NoError(t, err)
	assert.Equal(t, 25, page.Total)
	assert.Len(t, page.Jobs, 10)
	assert.Equal(t, 3, page.TotalPages)

	lastPage, err := s.List(ctx, model.ListFilter{PageSize: 10, PageNumber: 3})
	require.NoError(t, err)
	assert.Len(t, lastPage.Jobs, 5)
}

func TestListClampsOutOfRangePageSize(t *testing.T) {
	s := newTestStore(t)
	page, err := s.List(context.Background(), model.ListFilter{PageSize: 1, PageNumber: 0})
	require.NoError(t, err)
	assert.Equal(t, 10, page.Size)
	assert.Equal(t, 1, page.Number)
}
