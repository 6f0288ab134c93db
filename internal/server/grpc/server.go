// Package grpc exposes the feedback service over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophfeedback/internal/logging"
	"github.com/dmitrijs2005/gophfeedback/internal/server/content"
	"github.com/dmitrijs2005/gophfeedback/internal/server/services"
	"github.com/dmitrijs2005/gophfeedback/internal/server/sites"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address   string
	entries   *services.EntryService
	content   content.Provider
	sites     *sites.Resolver
	localizer content.Localizer
	logger    logging.Logger
}

var _ FeedbackServiceServer = (*GRPCServer)(nil)

// NewGRPCServer builds a server for address. localizer may be nil, in
// which case unnamed ratings and statuses are shown by alias.
func NewGRPCServer(a string, l logging.Logger, es *services.EntryService, cp content.Provider, sr *sites.Resolver, loc content.Localizer) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		entries:   es,
		content:   cp,
		sites:     sr,
		localizer: loc,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor))

	srv.RegisterService(&ServiceDesc, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
