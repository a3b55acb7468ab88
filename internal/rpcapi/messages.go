// Package rpcapi is the gRPC front door: SubmitExecution, GetExecution,
// CancelExecution, ListExecutions, HealthCheck.
//
// The service is wired directly against grpc-go's lower-level
// ServiceDesc/MethodDesc API with a JSON wire codec instead of generated
// protobuf stubs, since no protoc toolchain is available in this build
// environment and a hand-authored ProtoReflect implementation would be
// unverifiable without one. grpc-go's codec is pluggable by design for
// exactly this reason — see DESIGN.md for the full rationale.
package rpcapi

import "time"

// ResourceRequirements mirrors the job's resource limits object
// (model.Resources). Only the RPC surface accepts it on submission.
type ResourceRequirements struct {
	MemoryMiB      int64   `json:"memory_mib"`
	CPUCores       float64 `json:"cpu_cores"`
	DiskMiB        int64   `json:"disk_mib"`
	NetworkEnabled bool    `json:"network_enabled"`
}

// ExecutionRequest is the submission payload carried over RPC.
type ExecutionRequest struct {
	Code           string                `json:"code"`
	Language       string                `json:"language"`
	Args           []string              `json:"args,omitempty"`
	Environment    map[string]string     `json:"environment,omitempty"`
	TimeoutSeconds int32                 `json:"timeout_seconds,omitempty"`
	Resources      *ResourceRequirements `json:"resources,omitempty"`
}

// ExecutionResult mirrors model.Result over the wire.
type ExecutionResult struct {
	ExitCode   int32  `json:"exit_code"`
	Stdout     string `json:"stdout"`
	Stderr     string `json:"stderr"`
	DurationMs int64  `json:"duration_ms"`
}

// Execution is the full job record as the RPC surface exposes it.
type Execution struct {
	ID          string            `json:"id"`
	Owner       string            `json:"owner,omitempty"`
	Workspace   string            `json:"workspace,omitempty"`
	Request     *ExecutionRequest `json:"request"`
	Status      string            `json:"status"`
	Result      *ExecutionResult  `json:"result,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	StartedAt   *time.Time        `json:"started_at,omitempty"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

type SubmitExecutionRequest struct {
	Request   *ExecutionRequest `json:"request"`
	Owner     string            `json:"owner,omitempty"`
	Workspace string            `json:"workspace,omitempty"`
	Async     bool              `json:"async"`
}

type SubmitExecutionResponse struct {
	ExecutionID string           `json:"execution_id"`
	Status      string           `json:"status"`
	Result      *ExecutionResult `json:"result,omitempty"`
}

type GetExecutionRequest struct {
	ExecutionID string `json:"execution_id"`
}

type GetExecutionResponse struct {
	Execution *Execution `json:"execution"`
}

type CancelExecutionRequest struct {
	ExecutionID string `json:"execution_id"`
}

type CancelExecutionResponse struct {
	Success     bool   `json:"success"`
	FinalStatus string `json:"final_status"`
}

type ListExecutionsRequest struct {
	Owner      string `json:"owner,omitempty"`
	Workspace  string `json:"workspace,omitempty"`
	PageSize   int32  `json:"page_size,omitempty"`
	PageNumber int32  `json:"page_number,omitempty"`
}

type ListExecutionsResponse struct {
	Executions []*Execution `json:"executions"`
	Total      int32        `json:"total"`
	Size       int32        `json:"size"`
	Number     int32        `json:"number"`
	TotalPages int32        `json:"total_pages"`
}

type HealthCheckRequest struct{}

type HealthCheckResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}
