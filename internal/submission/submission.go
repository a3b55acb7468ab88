// Package submission validates a request, allocates an id, writes the
// initial record, and enqueues it.
package submission

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/metrics"
	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/queue"
	"github.com/syla/execution-service/internal/store"
)

// PollInterval is the synchronous-submission polling interval.
const PollInterval = 50 * time.Millisecond

// Handler validates, persists and enqueues submitted requests.
type Handler struct {
	Store store.Store
	Queue queue.Queue
}

// NewHandler wires a submission handler against the store and queue.
func NewHandler(s store.Store, q queue.Queue) *Handler {
	return &Handler{Store: s, Queue: q}
}

// Submit validates req, allocates a job id, writes the pending record, and
// pushes it to the queue, in that order.
func (h *Handler) Submit(ctx context.Context, req model.Request, owner, workspace string) (*model.Job, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	job := model.New(req, owner, workspace)
	job.Request.TimeoutSeconds = req.EffectiveTimeout()

	if err := h.Store.Put(ctx, job); err != nil {
		return nil, err
	}

	if err := h.Queue.Push(ctx, job.ID); err != nil {
		// The record now exists without a queue entry: an orphan. It stays
		// in the store for an operator or a future reaper to notice; the
		// core never deletes records.
		log.WithComponent("submission").Error().
			Err(err).
			Str("job_id", job.ID.String()).
			Msg("job orphaned: store write succeeded but enqueue failed")
		return nil, err
	}

	metrics.SubmissionsTotal.Inc()
	return job, nil
}

// AwaitTerminal polls the store until job reaches a terminal state or
// deadline elapses, for the "synchronous" submission option a front door
// may offer.
func (h *Handler) AwaitTerminal(ctx context.Context, id uuid.UUID, deadline time.Time) (*model.Job, error) {
	for {
		job, err := h.Store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if job.Status.IsTerminal() {
			return job, nil
		}
		if time.Now().After(deadline) {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(PollInterval):
		}
	}
}

func validate(req model.Request) error {
	if req.Language == "" {
		return apierr.Validation("language is required")
	}
	if req.Code == "" {
		return apierr.Validation("code is required")
	}
	if len(req.Code) > model.DefaultCodeLimitBytes {
		return apierr.Validation("code exceeds size limit")
	}
	if req.TimeoutSeconds != 0 &&
		(req.TimeoutSeconds < model.MinTimeoutSeconds || req.TimeoutSeconds > model.MaxTimeoutSeconds) {
		return apierr.Validation("timeout_seconds must be in [1, 300]")
	}
	return nil
}
