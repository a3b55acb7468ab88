package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// AuthInterceptor is a seam for request authentication on the RPC surface.
// This service does not enforce authentication itself, so it passes every
// call through unchanged. It exists so a deployment that needs auth can
// slot a real check in without touching the service implementation.
func AuthInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	return handler(ctx, req)
}
