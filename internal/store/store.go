// Package store is a thin accessor around the external key/value store
// holding job records, plus an optional longer-retention mirror.
package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/syla/execution-service/internal/model"
)

// Store is the Put/Get-by-id contract, with no read-modify-write atomicity
// guarantee (the worker avoids the classic lost update with re-read-before-
// terminal-write).
type Store interface {
	Put(ctx context.Context, job *model.Job) error
	Get(ctx context.Context, id uuid.UUID) (*model.Job, error)
	List(ctx context.Context, filter model.ListFilter) (*model.Page, error)
}
