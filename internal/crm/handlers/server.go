// Package handlers serves the CRM REST API over gin and runs it next to a
// gRPC server that exposes the standard health service.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthPath is the HTTP route proxying the gRPC health check.
const HealthPath = "/healthz"

// Server holds references to both a gRPC server and an HTTP server.
type Server struct {
	grpcServer   *grpc.Server
	health       *health.Server
	httpServer   *http.Server
	healthConn   *grpc.ClientConn
	logger       *zap.Logger
	grpcEndpoint string
	httpEndpoint string
	grpcTarget   string
}

// NewServer constructs a Server with separate endpoints for gRPC and HTTP.
func NewServer(
	grpcPort int,
	httpPort int,
	logger *zap.Logger,
	grpcOpts ...grpc.ServerOption,
) *Server {
	grpcServer := grpc.NewServer(grpcOpts...)
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)

	return &Server{
		grpcServer:   grpcServer,
		health:       healthServer,
		httpServer:   &http.Server{ReadHeaderTimeout: 10 * time.Second},
		logger:       logger,
		grpcEndpoint: fmt.Sprintf(":%d", grpcPort),
		httpEndpoint: fmt.Sprintf(":%d", httpPort),
		grpcTarget:   fmt.Sprintf("localhost:%d", grpcPort),
	}
}

// RegisterHTTPGateway serves router over HTTP and mounts the gRPC health
// check on it through a gateway ServeMux.
func (s *Server) RegisterHTTPGateway(router *gin.Engine, dialOpts []grpc.DialOption) error {
	conn, err := grpc.NewClient(s.grpcTarget, dialOpts...)
	if err != nil {
		return fmt.Errorf("failed to create health client: %w", err)
	}
	s.healthConn = conn

	mux := runtime.NewServeMux(
		runtime.WithHealthzEndpoint(grpc_health_v1.NewHealthClient(conn)),
	)
	router.GET(HealthPath, gin.WrapH(mux))

	s.httpServer.Handler = router
	s.httpServer.Addr = s.httpEndpoint
	return nil
}

// Start runs the gRPC and HTTP servers concurrently, returning on the first error.
func (s *Server) Start() error {
	var wg sync.WaitGroup
	wg.Add(2)
	errChan := make(chan error, 2)

	go func() {
		defer wg.Done()
		s.logger.Info("Starting gRPC server", zap.String("endpoint", s.grpcEndpoint))
		lis, err := net.Listen("tcp", s.grpcEndpoint)
		if err != nil {
			errChan <- fmt.Errorf("gRPC listen error: %w", err)
			return
		}
		if err := s.grpcServer.Serve(lis); err != nil {
			errChan <- fmt.Errorf("gRPC serve error: %w", err)
		}
	}()

	go func() {
		defer wg.Done()
		s.logger.Info("Starting HTTP server", zap.String("endpoint", s.httpEndpoint))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP serve error: %w", err)
		}
	}()

	go func() {
		wg.Wait()
		close(errChan)
	}()

	for err := range errChan {
		if err != nil {
			return err
		}
	}
	return nil
}

// Stop marks the service as not serving and gracefully shuts down both
// servers.
func (s *Server) Stop() {
	s.logger.Info("Shutting down servers...")
	s.health.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if s.healthConn != nil {
		_ = s.healthConn.Close()
	}
	s.grpcServer.GracefulStop()

	s.logger.Info("Servers stopped")
}
