package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/sandbox"
)

type memStore struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*model.Job
}

func newMemStore() *memStore {
	return &memStore{jobs: make(map[uuid.UUID]*model.Job)}
}

func (s *memStore) Put(ctx context.Context, job *model.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job.Clone()
	return nil
}

func (s *memStore) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, apierr.NotFound("not found")
	}
	return job.Clone(), nil
}

func (s *memStore) List(ctx context.Context, filter model.ListFilter) (*model.Page, error) {
	return nil, nil
}

type singleItemQueue struct {
	id   uuid.UUID
	done bool
}

func (q *singleItemQueue) Push(ctx context.Context, id uuid.UUID) error { return nil }

func (q *singleItemQueue) Pop(ctx context.Context) (uuid.UUID, error) {
	if q.done {
		return uuid.Nil, queue.ErrEmpty
	}
	q.done = true
	return q.id, nil
}

func (q *singleItemQueue) Length(ctx context.Context) (int64, error) { return 0, nil }

type fakeSandbox struct {
	result *sandbox.Result
	err    error
}

func (f *fakeSandbox) Run(ctx context.Context, name string, cfg sandbox.ContainerConfig, hostDir string) (*sandbox.Result, error) {
	return f.result, f.err
}

func (f *fakeSandbox) Close() error { return nil }

func TestProcessJobCompletesSuccessfully(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "print(1)"}, "", "")
	require.NoError(t, s.Put(context.Background(), job))

	sb := &fakeSandbox{result: &sandbox.Result{ExitCode: 0, Stdout: "1\n"}}
	w := New("w0", s, &singleItemQueue{id: job.ID}, sb)

	w.processJob(context.Background(), job.ID)

	got, err := s.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
	assert.Equal(t, "1\n", got.Result.Stdout)
	assert.NotNil(t, got.StartedAt)
	assert.NotNil(t, got.CompletedAt)
}

func TestProcessJobNonZeroExitIsFailed(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "raise"}, "", "")
	require.NoError(t, s.Put(context.Background(), job))

	sb := &fakeSandbox{result: &sandbox.Result{ExitCode: 1, Stderr: "boom"}}
	w := New("w0", s, &singleItemQueue{id: job.ID}, sb)

	w.processJob(context.Background(), job.ID)

	got, _ := s.Get(context.Background(), job.ID)
	assert.Equal(t, model.StatusFailed, got.Status)
}

func TestProcessJobTimeoutIsTranslated(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "while True: pass"}, "", "")
	require.NoError(t, s.Put(context.Background(), job))

	sb := &fakeSandbox{result: &sandbox.Result{ExitCode: -1, TimedOut: true}}
	w := New("w0", s, &singleItemQueue{id: job.ID}, sb)

	w.processJob(context.Background(), job.ID)

	got, _ := s.Get(context.Background(), job.ID)
	assert.Equal(t, model.StatusTimeout, got.Status)
}

func TestProcessJobSandboxAdapterErrorIsFailed(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "x"}, "", "")
	require.NoError(t, s.Put(context.Background(), job))

	sb := &fakeSandbox{err: &sandbox.AdapterError{Op: "create", Err: errors.New("daemon unreachable")}}
	w := New("w0", s, &singleItemQueue{id: job.ID}, sb)

	w.processJob(context.Background(), job.ID)

	got, _ := s.Get(context.Background(), job.ID)
	assert.Equal(t, model.StatusFailed, got.Status)
	assert.Contains(t, got.Result.Stderr, "daemon unreachable")
}

func TestProcessJobSkipsNonPendingJob(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "x"}, "", "")
	job.Status = model.StatusCancelled
	require.NoError(t, s.Put(context.Background(), job))

	sb := &fakeSandbox{result: &sandbox.Result{ExitCode: 0}}
	w := New("w0", s, &singleItemQueue{id: job.ID}, sb)

	w.processJob(context.Background(), job.ID)

	got, _ := s.Get(context.Background(), job.ID)
	assert.Equal(t, model.StatusCancelled, got.Status)
	assert.Nil(t, got.Result)
}

func TestFinishSuppressesWriteWhenCancelledConcurrently(t *testing.T) {
	s := newMemStore()
	job := model.New(model.Request{Language: "python", Code: "x"}, "", "")
	job.Status = model.StatusRunning
	require.NoError(t, s.Put(context.Background(), job))

	// Simulate a cancel landing while the sandbox run is in flight.
	cancelled := job.Clone()
	cancelled.Status = model.StatusCancelled
	require.NoError(t, s.Put(context.Background(), cancelled))

	w := New("w0", s, &singleItemQueue{id: job.ID}, &fakeSandbox{})
	w.finish(context.Background(), job, model.StatusCompleted, &model.Result{ExitCode: 0})

	got, err := s.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, got.Status, "first-writer-wins: cancel must not be overwritten")
	assert.Nil(t, got.Result)
}

func TestRunStopsOnContextCancellation(t *testing.T) {
	s := newMemStore()
	w := New("w0", s, &singleItemQueue{done: true}, &fakeSandbox{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return promptly after context cancellation")
	}
}
