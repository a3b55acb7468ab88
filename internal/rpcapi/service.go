package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// ExecutionServiceServer is the server-side contract for
// syla.execution.v1.ExecutionService, shaped the way protoc-gen-go-grpc
// would emit it.
type ExecutionServiceServer interface {
	SubmitExecution(context.Context, *SubmitExecutionRequest) (*SubmitExecutionResponse, error)
	GetExecution(context.Context, *GetExecutionRequest) (*GetExecutionResponse, error)
	CancelExecution(context.Context, *CancelExecutionRequest) (*CancelExecutionResponse, error)
	ListExecutions(context.Context, *ListExecutionsRequest) (*ListExecutionsResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// UnimplementedExecutionServiceServer must be embedded by any
// implementation to get forward-compatible errors for unadded methods.
type UnimplementedExecutionServiceServer struct{}

func (UnimplementedExecutionServiceServer) SubmitExecution(context.Context, *SubmitExecutionRequest) (*SubmitExecutionResponse, error) {
	return nil, grpcUnimplemented("SubmitExecution")
}

func (UnimplementedExecutionServiceServer) GetExecution(context.Context, *GetExecutionRequest) (*GetExecutionResponse, error) {
	return nil, grpcUnimplemented("GetExecution")
}

func (UnimplementedExecutionServiceServer) CancelExecution(context.Context, *CancelExecutionRequest) (*CancelExecutionResponse, error) {
	return nil, grpcUnimplemented("CancelExecution")
}

func (UnimplementedExecutionServiceServer) ListExecutions(context.Context, *ListExecutionsRequest) (*ListExecutionsResponse, error) {
	return nil, grpcUnimplemented("ListExecutions")
}

func (UnimplementedExecutionServiceServer) HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error) {
	return nil, grpcUnimplemented("HealthCheck")
}

// RegisterExecutionServiceServer registers srv against s, the hand-written
// equivalent of a generated RegisterXServer function.
func RegisterExecutionServiceServer(s grpc.ServiceRegistrar, srv ExecutionServiceServer) {
	s.RegisterService(&executionServiceDesc, srv)
}

func _ExecutionService_SubmitExecution_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SubmitExecutionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutionServiceServer).SubmitExecution(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syla.execution.v1.ExecutionService/SubmitExecution"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutionServiceServer).SubmitExecution(ctx, req.(*SubmitExecutionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutionService_GetExecution_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetExecutionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutionServiceServer).GetExecution(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syla.execution.v1.ExecutionService/GetExecution"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutionServiceServer).GetExecution(ctx, req.(*GetExecutionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutionService_CancelExecution_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelExecutionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutionServiceServer).CancelExecution(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syla.execution.v1.ExecutionService/CancelExecution"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutionServiceServer).CancelExecution(ctx, req.(*CancelExecutionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutionService_ListExecutions_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListExecutionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutionServiceServer).ListExecutions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syla.execution.v1.ExecutionService/ListExecutions"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutionServiceServer).ListExecutions(ctx, req.(*ListExecutionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ExecutionService_HealthCheck_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ExecutionServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syla.execution.v1.ExecutionService/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ExecutionServiceServer).HealthCheck(ctx, req.(*HealthCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var executionServiceDesc = grpc.ServiceDesc{
	ServiceName: "syla.execution.v1.ExecutionService",
	HandlerType: (*ExecutionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitExecution", Handler: _ExecutionService_SubmitExecution_Handler},
		{MethodName: "GetExecution", Handler: _ExecutionService_GetExecution_Handler},
		{MethodName: "CancelExecution", Handler: _ExecutionService_CancelExecution_Handler},
		{MethodName: "ListExecutions", Handler: _ExecutionService_ListExecutions_Handler},
		{MethodName: "HealthCheck", Handler: _ExecutionService_HealthCheck_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "syla/execution/v1/execution.proto",
}

func grpcUnimplemented(method string) error {
	return &unimplementedError{method: method}
}

type unimplementedError struct{ method string }

func (e *unimplementedError) Error() string { return "method not implemented: " + e.method }
