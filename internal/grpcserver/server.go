// Package grpcserver wraps google.golang.org/grpc.Server with the logging
// interceptor, keepalive, health checking, and reflection setup shared by
// the OTLP receiver (:4317) and the query service (:4319), grounded on
// carverauto-serviceradar's pkg/grpc server wrapper, adapted from its
// zerolog interceptors to this project's log/slog logger.
package grpcserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

const shutdownTimeout = 5 * time.Second

// ServerOption modifies a Server's configuration before it's built.
type ServerOption func(*Server)

// Server wraps a gRPC server with health checking, reflection, and the
// logging/recovery interceptor chain.
type Server struct {
	srv         *grpc.Server
	health      *health.Server
	addr        string
	log         *slog.Logger
	mu          sync.Mutex
	services    map[string]struct{}
	extraOpts   []grpc.ServerOption
}

// NewServer builds a Server listening on addr once Start is called.
func NewServer(addr string, log *slog.Logger, opts ...ServerOption) *Server {
	s := &Server{
		addr:     addr,
		log:      log,
		services: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	serverOpts := append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(loggingInterceptor(log), recoveryInterceptor(log)),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			MaxConnectionIdle: 10 * time.Minute,
			Time:              2 * time.Minute,
			Timeout:           20 * time.Second,
		}),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             2 * time.Minute,
			PermitWithoutStream: true,
		}),
	}, s.extraOpts...)

	s.srv = grpc.NewServer(serverOpts...)
	s.health = health.NewServer()
	healthpb.RegisterHealthServer(s.srv, s.health)
	reflection.Register(s.srv)

	return s
}

// WithServerOptions appends raw grpc.ServerOptions (e.g. a custom codec).
func WithServerOptions(opts ...grpc.ServerOption) ServerOption {
	return func(s *Server) { s.extraOpts = append(s.extraOpts, opts...) }
}

// RegisterService registers desc/impl and marks the service serving.
func (s *Server) RegisterService(desc *grpc.ServiceDesc, impl interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[desc.ServiceName] = struct{}{}
	s.srv.RegisterService(desc, impl)
	s.health.SetServingStatus(desc.ServiceName, healthpb.HealthCheckResponse_SERVING)
}

// Start listens on addr and blocks serving until Stop is called.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.log.Info("grpc server listening", "addr", s.addr)

	if err := s.srv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return fmt.Errorf("serving: %w", err)
	}
	return nil
}

// Stop gracefully stops the server, forcing a stop if ctx expires or
// shutdownTimeout elapses first.
func (s *Server) Stop(ctx context.Context) {
	s.mu.Lock()
	for svc := range s.services {
		s.health.SetServingStatus(svc, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	s.mu.Unlock()

	stopped := make(chan struct{})
	go func() {
		s.srv.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		s.log.Info("grpc server stopped gracefully")
	case <-ctx.Done():
		s.log.Warn("grpc server shutdown timed out, forcing stop")
		s.srv.Stop()
	case <-time.After(shutdownTimeout):
		s.log.Warn("grpc server shutdown timed out, forcing stop")
		s.srv.Stop()
	}
}

func loggingInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		log.Debug("grpc call", "method", info.FullMethod, "duration", time.Since(start), "error", err)
		return resp, err
	}
}

func recoveryInterceptor(log *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("recovered from panic", "method", info.FullMethod, "panic", r)
				err = fmt.Errorf("internal error")
			}
		}()
		return handler(ctx, req)
	}
}
