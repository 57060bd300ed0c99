package grpcserver

import (
	"context"
	"net"
	"time"

	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/rzbill/soid/internal/runtime"
	logpkg "github.com/rzbill/soid/pkg/log"
)

// HealthInterval is how often the ledger is probed while serving.
const HealthInterval = 5 * time.Second

// Server owns the gRPC server instance and runtime.
type Server struct {
	rt     *runtime.Runtime
	grpc   *grpc.Server
	lis    net.Listener
	health *healthProbe
	logger logpkg.Logger
}

// New constructs a gRPC server and registers the health and reflection
// services.
func New(rt *runtime.Runtime, logger logpkg.Logger, opts ...grpc.ServerOption) *Server {
	if logger == nil {
		logger = rt.Logger()
	}
	logger = logger.WithComponent("grpc")
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(unaryLogger(logger))}, opts...)
	s := &Server{
		rt:     rt,
		grpc:   grpc.NewServer(opts...),
		health: newHealthProbe(rt, logger),
		logger: logger,
	}
	healthpb.RegisterHealthServer(s.grpc, s.health.srv)
	reflection.Register(s.grpc)
	s.health.refresh(context.Background())
	return s
}

// ListenAndServe binds to addr and serves until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.lis = l
	s.logger.Info("grpc listening", logpkg.Str("addr", l.Addr().String()))
	go s.health.run(ctx, HealthInterval)
	errCh := make(chan error, 1)
	go func() { errCh <- s.grpc.Serve(l) }()
	select {
	case <-ctx.Done():
		s.grpc.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close stops the server and closes the listener.
func (s *Server) Close() {
	if s.grpc != nil {
		s.grpc.GracefulStop()
	}
	if s.lis != nil {
		_ = s.lis.Close()
	}
}

func unaryLogger(logger logpkg.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []logpkg.Field{logpkg.Str("method", info.FullMethod), logpkg.Duration("elapsed", time.Since(start))}
		if err != nil {
			logger.Warn("rpc failed", append(fields, logpkg.Err(err))...)
		} else {
			logger.Debug("rpc", fields...)
		}
		return resp, err
	}
}
