// Package lookup reads a job by id, cancels a non-terminal job, and
// lists/filters/paginates over the keyspace.
package lookup

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/store"
)

// CancelOutcome reports what Cancel actually did, so callers can
// distinguish an idempotent no-op from a real transition.
type CancelOutcome int

const (
	CancelApplied CancelOutcome = iota
	CancelAlreadyTerminal
)

// Service implements the read/cancel/list surface over a job store.
type Service struct {
	Store store.Store
}

// New wires a lookup service against the job store.
func New(s store.Store) *Service {
	return &Service{Store: s}
}

// Get is a direct store read.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	return s.Store.Get(ctx, id)
}

// Cancel marks a non-terminal job cancelled. If the record is already
// terminal it is left untouched and CancelAlreadyTerminal is reported. No
// attempt is made to kill a running container from this path — a running
// worker will still complete, and its own first-writer-wins check will see
// the cancelled status and suppress its terminal write.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Job, CancelOutcome, error) {
	job, err := s.Store.Get(ctx, id)
	if err != nil {
		return nil, CancelAlreadyTerminal, err
	}

	if job.Status.IsTerminal() {
		return job, CancelAlreadyTerminal, nil
	}

	now := time.Now().UTC()
	job.Status = model.StatusCancelled
	job.CompletedAt = &now

	if err := s.Store.Put(ctx, job); err != nil {
		return nil, CancelAlreadyTerminal, err
	}
	return job, CancelApplied, nil
}

// List applies filter/pagination over the store's keyspace; the clamping
// itself lives in model.ListFilter.ClampPage, invoked by the store
// implementation.
func (s *Service) List(ctx context.Context, filter model.ListFilter) (*model.Page, error) {
	return s.Store.List(ctx, filter)
}
