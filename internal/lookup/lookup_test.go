package lookup

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/store"
)

func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := store.NewRedisStore(client)
	return New(s), s
}

func TestCancelPendingJobApplies(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	job := model.New(model.Request{Language: "python"}, "", "")
	require.NoError(t, s.Put(ctx, job))

	got, outcome, err := svc.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelApplied, outcome)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.NotNil(t, got.CompletedAt)
}

func TestCancelTerminalJobIsNoop(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	job := model.New(model.Request{Language: "python"}, "", "")
	job.Status = model.StatusCompleted
	require.NoError(t, s.Put(ctx, job))

	got, outcome, err := svc.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelAlreadyTerminal, outcome)
	assert.Equal(t, model.StatusCompleted, got.Status)

	reread, err := s.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, reread.Status)
}

func TestCancelDoubleCancelIsIdempotent(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	job := model.New(model.Request{Language: "python"}, "", "")
	require.NoError(t, s.Put(ctx, job))

	_, outcome1, err := svc.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelApplied, outcome1)

	_, outcome2, err := svc.Cancel(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, CancelAlreadyTerminal, outcome2)
}

func TestGetDelegatesToStore(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	job := model.New(model.Request{Language: "go"}, "", "")
	require.NoError(t, s.Put(ctx, job))

	got, err := svc.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.ID, got.ID)
}
