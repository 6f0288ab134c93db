package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// loggingInterceptor tags the request context with the method and a
// request id, then logs the call with its duration and status code.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	ctx = logging.ContextWith(ctx, "method", info.FullMethod, "request_id", uuid.NewString())

	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"duration", time.Since(start), "code", code.String()}
	if err != nil {
		s.logger.Warn(ctx, "request failed", append(args, "error", err)...)
	} else {
		s.logger.Info(ctx, "request served", args...)
	}

	return resp, err
}
