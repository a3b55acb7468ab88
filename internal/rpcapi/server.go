package rpcapi

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/syla/execution-service/internal/apierr"
	"github.com/syla/execution-service/internal/log"
	"github.com/syla/execution-service/internal/lookup"
	"github.com/syla/execution-service/internal/model"
	"github.com/syla/execution-service/internal/submission"
)

// maxSyncWait bounds how long SubmitExecution(async=false) blocks before
// returning the job in whatever state it has reached.
const maxSyncWait = 5 * time.Minute

// ExecutionServiceImpl is the gRPC-facing twin of internal/httpapi's
// Handler: same submission/lookup dependencies, richer wire shape.
type ExecutionServiceImpl struct {
	UnimplementedExecutionServiceServer

	Submission *submission.Handler
	Lookup     *lookup.Service
}

// NewExecutionServiceImpl wires the RPC surface against the submission and
// lookup services, the same dependencies internal/httpapi uses.
func NewExecutionServiceImpl(sub *submission.Handler, lk *lookup.Service) *ExecutionServiceImpl {
	return &ExecutionServiceImpl{Submission: sub, Lookup: lk}
}

func (s *ExecutionServiceImpl) SubmitExecution(ctx context.Context, req *SubmitExecutionRequest) (*SubmitExecutionResponse, error) {
	job, err := s.Submission.Submit(ctx, toModelRequest(req.Request), req.Owner, req.Workspace)
	if err != nil {
		return nil, grpcError(err)
	}

	if !req.Async {
		deadline := time.Now().Add(maxSyncWait)
		if completed, err := s.Submission.AwaitTerminal(ctx, job.ID, deadline); err == nil {
			job = completed
		} else {
			log.WithComponent("rpcapi").Warn().Err(err).Str("job_id", job.ID.String()).Msg("synchronous await did not complete")
		}
	}

	return &SubmitExecutionResponse{
		ExecutionID: job.ID.String(),
		Status:      job.Status.WireStatus(),
		Result:      toWireResult(job.Result),
	}, nil
}

func (s *ExecutionServiceImpl) GetExecution(ctx context.Context, req *GetExecutionRequest) (*GetExecutionResponse, error) {
	id, err := uuid.Parse(req.ExecutionID)
	if err != nil {
		return nil, grpcError(apierr.Validation("invalid execution_id"))
	}

	job, err := s.Lookup.Get(ctx, id)
	if err != nil {
		return nil, grpcError(err)
	}

	return &GetExecutionResponse{Execution: toWireExecution(job)}, nil
}

func (s *ExecutionServiceImpl) CancelExecution(ctx context.Context, req *CancelExecutionRequest) (*CancelExecutionResponse, error) {
	id, err := uuid.Parse(req.ExecutionID)
	if err != nil {
		return nil, grpcError(apierr.Validation("invalid execution_id"))
	}

	job, outcome, err := s.Lookup.Cancel(ctx, id)
	if err != nil {
		return nil, grpcError(err)
	}

	return &CancelExecutionResponse{
		Success:     outcome == lookup.CancelApplied,
		FinalStatus: job.Status.WireStatus(),
	}, nil
}

func (s *ExecutionServiceImpl) ListExecutions(ctx context.Context, req *ListExecutionsRequest) (*ListExecutionsResponse, error) {
	filter := model.ListFilter{
		Owner:      req.Owner,
		Workspace:  req.Workspace,
		PageSize:   int(req.PageSize),
		PageNumber: int(req.PageNumber),
	}

	page, err := s.Lookup.List(ctx, filter)
	if err != nil {
		return nil, grpcError(err)
	}

	executions := make([]*Execution, 0, len(page.Jobs))
	for _, job := range page.Jobs {
		executions = append(executions, toWireExecution(job))
	}

	return &ListExecutionsResponse{
		Executions: executions,
		Total:      int32(page.Total),
		Size:       int32(page.Size),
		Number:     int32(page.Number),
		TotalPages: int32(page.TotalPages),
	}, nil
}

func (s *ExecutionServiceImpl) HealthCheck(ctx context.Context, req *HealthCheckRequest) (*HealthCheckResponse, error) {
	return &HealthCheckResponse{Status: "SERVING", Message: "ok", Version: "1"}, nil
}

func toModelRequest(r *ExecutionRequest) model.Request {
	if r == nil {
		return model.Request{}
	}
	req := model.Request{
		Code:           r.Code,
		Language:       r.Language,
		Args:           r.Args,
		Environment:    r.Environment,
		TimeoutSeconds: int(r.TimeoutSeconds),
	}
	if r.Resources != nil {
		req.Resources = &model.Resources{
			MemoryMiB:      r.Resources.MemoryMiB,
			CPUCores:       r.Resources.CPUCores,
			DiskMiB:        r.Resources.DiskMiB,
			NetworkEnabled: r.Resources.NetworkEnabled,
		}
	}
	return req
}

func toWireRequest(r model.Request) *ExecutionRequest {
	wire := &ExecutionRequest{
		Code:           r.Code,
		Language:       r.Language,
		Args:           r.Args,
		Environment:    r.Environment,
		TimeoutSeconds: int32(r.TimeoutSeconds),
	}
	if r.Resources != nil {
		wire.Resources = &ResourceRequirements{
			MemoryMiB:      r.Resources.MemoryMiB,
			CPUCores:       r.Resources.CPUCores,
			DiskMiB:        r.Resources.DiskMiB,
			NetworkEnabled: r.Resources.NetworkEnabled,
		}
	}
	return wire
}

func toWireResult(r *model.Result) *ExecutionResult {
	if r == nil {
		return nil
	}
	return &ExecutionResult{
		ExitCode:   int32(r.ExitCode),
		Stdout:     r.Stdout,
		Stderr:     r.Stderr,
		DurationMs: r.DurationMs,
	}
}

func toWireExecution(j *model.Job) *Execution {
	return &Execution{
		ID:          j.ID.String(),
		Owner:       j.Owner,
		Workspace:   j.Workspace,
		Request:     toWireRequest(j.Request),
		Status:      j.Status.WireStatus(),
		Result:      toWireResult(j.Result),
		CreatedAt:   j.CreatedAt,
		StartedAt:   j.StartedAt,
		CompletedAt: j.CompletedAt,
	}
}

// grpcError maps the apierr taxonomy onto standard gRPC status codes so
// clients get conventional Code() values regardless of the JSON wire codec
// underneath.
func grpcError(err error) error {
	switch apierr.KindOf(err) {
	case apierr.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case apierr.KindNotFound:
		return status.Error(codes.NotFound, "execution not found")
	case apierr.KindStore, apierr.KindSerialization:
		return status.Error(codes.Unavailable, "store unavailable")
	default:
		log.WithComponent("rpcapi").Error().Err(err).Msg("internal error")
		return status.Error(codes.Internal, "internal error")
	}
}
