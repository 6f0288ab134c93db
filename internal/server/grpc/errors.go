package grpc

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophfeedback/internal/common"
	"github.com/dmitrijs2005/gophfeedback/internal/server/models"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a service error to a gRPC status. Errors that are already
// statuses pass through. Unknown errors are logged and hidden.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, common.ErrConfiguration):
		s.logger.Error(ctx, "configuration error", "error", err)
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error(ctx, "request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

// resultStatus turns a cancelled or failed entry result into a status
// carrying the result message.
func resultStatus(r *models.EntryResult) error {
	return status.Error(httpToCode(r.StatusCode), r.Message)
}

func httpToCode(statusCode int) codes.Code {
	switch statusCode {
	case http.StatusBadRequest:
		return codes.InvalidArgument
	case http.StatusUnauthorized:
		return codes.Unauthenticated
	case http.StatusForbidden:
		return codes.PermissionDenied
	case http.StatusNotFound:
		return codes.NotFound
	case http.StatusConflict:
		return codes.AlreadyExists
	case http.StatusPreconditionFailed, http.StatusUnprocessableEntity:
		return codes.FailedPrecondition
	case http.StatusTooManyRequests:
		return codes.ResourceExhausted
	case http.StatusNotImplemented:
		return codes.Unimplemented
	case http.StatusServiceUnavailable:
		return codes.Unavailable
	case http.StatusGatewayTimeout:
		return codes.DeadlineExceeded
	}
	switch {
	case statusCode >= 500:
		return codes.Internal
	case statusCode >= 400:
		return codes.FailedPrecondition
	default:
		return codes.Unknown
	}
}
