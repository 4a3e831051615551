// Package health serves the standard gRPC health protocol so orchestrators
// can probe the simulator without speaking HTTP.
package health

import (
	"context"
	"errors"
	"fmt"
	"net"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	grpc_health_v1 "google.golang.org/grpc/health/grpc_health_v1"
)

// Server reports SERVING for the overall process and each named service
// until Shutdown.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	services   []string
}

func NewServer(services ...string) *Server {
	grpcServer := grpc.NewServer(grpc.StatsHandler(otelgrpc.NewServerHandler()))
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	s := &Server{grpcServer: grpcServer, health: healthServer, services: services}
	s.SetServing(true)
	return s
}

// SetServing flips every registered status.
func (s *Server) SetServing(ok bool) {
	status := grpc_health_v1.HealthCheckResponse_NOT_SERVING
	if ok {
		status = grpc_health_v1.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	for _, name := range s.services {
		s.health.SetServingStatus(name, status)
	}
}

// Serve blocks until lis fails or the server stops.
func (s *Server) Serve(lis net.Listener) error {
	err := s.grpcServer.Serve(lis)
	if err == nil || errors.Is(err, grpc.ErrServerStopped) {
		return nil
	}
	return fmt.Errorf("serve gRPC health: %w", err)
}

// Shutdown marks everything NOT_SERVING and drains in-flight checks.
func (s *Server) Shutdown(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.grpcServer.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.grpcServer.Stop()
	}
}
