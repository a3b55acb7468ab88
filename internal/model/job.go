// Package model defines the job record that flows through submission,
// the queue, the worker loop and the sandbox adapter.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Status is one of the states in the job lifecycle graph:
// pending -> {running, cancelled}, running -> {completed, failed, timeout, cancelled}.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
	StatusTimeout   Status = "timeout"
	StatusCancelled Status = "cancelled"
)

// IsTerminal reports whether status has no outgoing transitions.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusTimeout, StatusCancelled:
		return true
	default:
		return false
	}
}

// WireStatus maps an internal status to its HTTP wire name, where
// "pending" is spelled "queued" on the wire.
func (s Status) WireStatus() string {
	if s == StatusPending {
		return "queued"
	}
	return string(s)
}

const (
	DefaultTimeoutSeconds = 30
	MaxTimeoutSeconds     = 300
	MinTimeoutSeconds     = 1

	DefaultMemoryMiB       = 512
	DefaultCPUCores        = 1.0
	DefaultDiskMiB         = 100
	DefaultNetworkEnabled  = false
	DefaultCodeLimitBytes  = 1 << 20 // 1 MiB
	MaxStreamBytes         = 1 << 20 // 1 MiB, applies to stdout and stderr independently
	TruncationMarker       = "...<truncated>"
)

// Resources caps the sandbox's CPU, memory, disk and network access.
type Resources struct {
	MemoryMiB      int64   `json:"memory_mib" bson:"memory_mib"`
	CPUCores       float64 `json:"cpu_cores" bson:"cpu_cores"`
	DiskMiB        int64   `json:"disk_mib" bson:"disk_mib"`
	NetworkEnabled bool    `json:"network_enabled" bson:"network_enabled"`
}

// DefaultResources returns the {512, 1.0, 100, false} baseline limits.
func DefaultResources() Resources {
	return Resources{
		MemoryMiB:      DefaultMemoryMiB,
		CPUCores:       DefaultCPUCores,
		DiskMiB:        DefaultDiskMiB,
		NetworkEnabled: DefaultNetworkEnabled,
	}
}

// Request is the submitted execution payload.
type Request struct {
	Code           string            `json:"code" bson:"code"`
	Language       string            `json:"language" bson:"language"`
	Args           []string          `json:"args,omitempty" bson:"args,omitempty"`
	Environment    map[string]string `json:"environment,omitempty" bson:"environment,omitempty"`
	TimeoutSeconds int               `json:"timeout_seconds,omitempty" bson:"timeout_seconds,omitempty"`
	Resources      *Resources        `json:"resources,omitempty" bson:"resources,omitempty"`
}

// EffectiveTimeout applies the default-then-cap rule for unset or excessive timeouts.
func (r Request) EffectiveTimeout() int {
	if r.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	if r.TimeoutSeconds > MaxTimeoutSeconds {
		return MaxTimeoutSeconds
	}
	return r.TimeoutSeconds
}

// EffectiveResources returns the request's resources or the documented defaults.
func (r Request) EffectiveResources() Resources {
	if r.Resources == nil {
		return DefaultResources()
	}
	res := *r.Resources
	if res.MemoryMiB <= 0 {
		res.MemoryMiB = DefaultMemoryMiB
	}
	if res.CPUCores <= 0 {
		res.CPUCores = DefaultCPUCores
	}
	if res.DiskMiB <= 0 {
		res.DiskMiB = DefaultDiskMiB
	}
	return res
}

// Result is attached to a job when the worker moves it to completed, failed
// or timeout. A cancelled job carries none, whether it was cancelled before
// pickup or while running.
type Result struct {
	ExitCode   int    `json:"exit_code" bson:"exit_code"`
	Stdout     string `json:"stdout" bson:"stdout"`
	Stderr     string `json:"stderr" bson:"stderr"`
	DurationMs int64  `json:"duration_ms" bson:"duration_ms"`
}

// Job is the single persisted entity tracked across submission, queueing
// and execution.
type Job struct {
	ID          uuid.UUID  `json:"id" bson:"_id"`
	Owner       string     `json:"owner,omitempty" bson:"owner,omitempty"`
	Workspace   string     `json:"workspace,omitempty" bson:"workspace,omitempty"`
	Request     Request    `json:"request" bson:"request"`
	Status      Status     `json:"status" bson:"status"`
	Result      *Result    `json:"result,omitempty" bson:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	StartedAt   *time.Time `json:"started_at,omitempty" bson:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}

// New constructs a pending job for a freshly submitted request.
func New(req Request, owner, workspace string) *Job {
	return &Job{
		ID:        uuid.New(),
		Owner:     owner,
		Workspace: workspace,
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep-enough copy for compare-and-swap style writes.
func (j *Job) Clone() *Job {
	cp := *j
	if j.Result != nil {
		r := *j.Result
		cp.Result = &r
	}
	if j.StartedAt != nil {
		t := *j.StartedAt
		cp.StartedAt = &t
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

// ListFilter narrows a lookup List call. The store's List clamps the
// pagination fields with ClampPage before applying them.
type ListFilter struct {
	Owner      string
	Workspace  string
	PageSize   int
	PageNumber int
}

// ClampPage applies the pagination clamps: size in
// [10,100], number >= 1.
func (f *ListFilter) ClampPage() {
	if f.PageSize < 10 {
		f.PageSize = 10
	}
	if f.PageSize > 100 {
		f.PageSize = 100
	}
	if f.PageNumber < 1 {
		f.PageNumber = 1
	}
}

// Page is the paginated result of a List call.
type Page struct {
	Jobs       []*Job
	Total      int
	Size       int
	Number     int
	TotalPages int
}
