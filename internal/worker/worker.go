// Package worker drains the queue and drives each job through its state
// machine, invoking the sandbox adapter and persisting via the store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/langprofile"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/metrics"
	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/sandbox"
	"github.com/syla/execution-service/internal/store"
)

const (
	idleSleep  = 100 * time.Millisecond
	errorSleep = 1 * time.Second
)

// Mirror is the narrow interface the worker needs from an optional
// retention mirror (internal/store.MongoMirror satisfies it).
type Mirror interface {
	Mirror(ctx context.Context, job *model.Job)
}

// Worker is a single long-running loop instance. Multiple Workers are
// symmetric and race for the queue — there is no placement or affinity
// between a worker and a job.
type Worker struct {
	ID      string
	Store   store.Store
	Queue   queue.Queue
	Sandbox sandbox.Sandbox
	Mirror  Mirror // optional, nil-safe
	TempDir string // base directory for per-job code dirs; os.TempDir() if empty

	logger zerolog.Logger
}

// New constructs a Worker identified by id (used only for logging).
func New(id string, s store.Store, q queue.Queue, sb sandbox.Sandbox) *Worker {
	return &Worker{
		ID:      id,
		Store:   s,
		Queue:   q,
		Sandbox: sb,
		logger:  log.WithComponent("worker").With().Str("worker_id", id).Logger(),
	}
}

// Run drains the queue until ctx is cancelled. It never returns an error:
// adapter errors and execution failures are folded into job state, never
// crash the loop.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info().Msg("worker loop starting")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker loop stopped")
			return
		default:
		}

		id, err := w.Queue.Pop(ctx)
		switch {
		case errors.Is(err, queue.ErrEmpty):
			sleep(ctx, idleSleep)
			continue
		case err != nil && apierr.KindOf(err) == apierr.KindInternal:
			// Malformed queue entry: log and continue, no id to retry.
			w.logger.Warn().Err(err).Msg("invalid job id popped from queue")
			continue
		case err != nil:
			w.logger.Error().Err(err).Msg("queue pop failed")
			sleep(ctx, errorSleep)
			continue
		}

		w.processJob(ctx, id)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

func (w *Worker) processJob(ctx context.Context, id uuid.UUID) {
	logger := log.WithJob(w.logger, id.String())

	job, err := w.Store.Get(ctx, id)
	if err != nil {
		if apierr.IsNotFound(err) {
			logger.Warn().Msg("popped id has no record, skipping")
			return
		}
		logger.Error().Err(err).Msg("failed to load job")
		return
	}
	if job.Status != model.StatusPending {
		// Idempotent skip: already claimed, cancelled before pickup, or a
		// duplicate pop.
		logger.Info().Str("status", string(job.Status)).Msg("skipping non-pending job")
		return
	}

	now := time.Now().UTC()
	job.StartedAt = &now
	job.Status = model.StatusRunning
	if err := w.persist(ctx, job); err != nil {
		logger.Error().Err(err).Msg("failed to mark job running")
		return
	}

	tempDir, err := os.MkdirTemp(w.TempDir, "syla-exec-"+id.String()+"-")
	if err != nil {
		w.finish(ctx, job, model.StatusFailed, &model.Result{
			ExitCode: -1,
			Stderr:   fmt.Sprintf("Execution error: %v", err),
		})
		return
	}
	defer os.RemoveAll(tempDir)

	profile, _ := langprofile.Lookup(job.Request.Language)
	codePath := filepath.Join(tempDir, profile.SourceFilename)
	if err := os.WriteFile(codePath, []byte(job.Request.Code), 0o644); err != nil {
		w.finish(ctx, job, model.StatusFailed, &model.Result{
			ExitCode: -1,
			Stderr:   fmt.Sprintf("Execution error: %v", err),
		})
		return
	}

	resources := job.Request.EffectiveResources()
	cfg := sandbox.ContainerConfig{
		Image:            profile.Image,
		Argv:             langprofile.Argv(profile, job.Request.Args),
		Env:              job.Request.Environment,
		WorkingDir:       "/workspace",
		MemoryLimitBytes: resources.MemoryMiB * 1024 * 1024,
		CPULimitCores:    resources.CPUCores,
		TimeoutSeconds:   job.Request.EffectiveTimeout(),
		NetworkEnabled:   resources.NetworkEnabled,
	}

	containerName := "execution-" + id.String()
	start := time.Now()
	result, runErr := w.Sandbox.Run(ctx, containerName, cfg, tempDir)
	metrics.SandboxRunDuration.Observe(time.Since(start).Seconds())

	if runErr != nil {
		logger.Error().Err(runErr).Msg("sandbox adapter error")
		w.finish(ctx, job, model.StatusFailed, &model.Result{
			ExitCode: -1,
			Stderr:   fmt.Sprintf("Execution error: %v", runErr),
		})
		return
	}

	status := statusFor(result)
	w.finish(ctx, job, status, &model.Result{
		ExitCode:   result.ExitCode,
		Stdout:     result.Stdout,
		Stderr:     result.Stderr,
		DurationMs: result.DurationMs,
	})
}

func statusFor(r *sandbox.Result) model.Status {
	switch {
	case r.TimedOut:
		return model.StatusTimeout
	case r.ExitCode == 0:
		return model.StatusCompleted
	default:
		return model.StatusFailed
	}
}

// finish writes the terminal state, honoring the first-writer-wins rule:
// it re-reads the record and refuses to overwrite a cancelled job.
func (w *Worker) finish(ctx context.Context, job *model.Job, status model.Status, result *model.Result) {
	logger := log.WithJob(w.logger, job.ID.String())

	current, err := w.Store.Get(ctx, job.ID)
	if err == nil && current.Status == model.StatusCancelled {
		logger.Info().Msg("suppressing terminal write: job was cancelled while running")
		metrics.JobsTotal.WithLabelValues(string(model.StatusCancelled)).Inc()
		return
	}

	now := time.Now().UTC()
	job.Status = status
	job.Result = result
	job.CompletedAt = &now

	if err := w.persist(ctx, job); err != nil {
		logger.Error().Err(err).Msg("failed to persist terminal state")
		return
	}

	logger.Info().Str("status", string(status)).Msg("job completed")
	metrics.JobsTotal.WithLabelValues(string(status)).Inc()
}

func (w *Worker) persist(ctx context.Context, job *model.Job) error {
	if err := w.Store.Put(ctx, job); err != nil {
		return err
	}
	if w.Mirror != nil {
		w.Mirror.Mirror(ctx, job)
	}
	return nil
}
