package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/crm/internal/crm/controller"
	"github.com/gartstein/crm/internal/crm/db"
	"github.com/gartstein/crm/internal/crm/events"
	"github.com/gartstein/crm/internal/crm/handlers"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type eventProducer interface {
	controller.EventProducer
	Close()
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the gRPC health service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) serve(ctx context.Context) error {
	cfg, logger := a.cfg, a.logger

	repo, err := db.Connect(ctx, cfg.Database(), logger)
	if err != nil {
		logger.Error("failed to initialize database", zap.Error(err))
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer, err := initProducer(a)
	if err != nil {
		logger.Error("failed to initialize Kafka producer", zap.Error(err))
		return err
	}
	defer producer.Close()

	svc := controller.NewService(repo, producer, logger)
	handler := handlers.NewHandler(svc, handlers.Options{
		PublicURL:  cfg.PublicURL,
		TimeLayout: cfg.DateTimeFormat,
		JWTSecret:  cfg.JWTSecret,
	}, logger)
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, write requests are not authenticated")
	}

	gin.SetMode(gin.ReleaseMode)
	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	if err := server.RegisterHTTPGateway(
		handler.Router(),
		[]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())},
	); err != nil {
		logger.Error("failed to register HTTP gateway", zap.Error(err))
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	return waitForShutdown(ctx, server, errCh, logger)
}

func initProducer(a *app) (eventProducer, error) {
	if len(a.cfg.KafkaBrokers) == 0 {
		a.logger.Info("KAFKA_BROKERS is empty, events are not published")
		return events.NopProducer{}, nil
	}
	return events.NewProducer(a.cfg.Producer(), a.logger)
}

// waitForShutdown blocks until an interrupt, SIGTERM or a server error, then
// shuts down the servers.
func waitForShutdown(ctx context.Context, server *handlers.Server, errCh <-chan error, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", zap.Error(err))
			server.Stop()
			return err
		}
		return nil
	case <-ctx.Done():
	}

	server.Stop()
	logger.Info("Servers stopped properly")
	return nil
}
