package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/crm/internal/crm/events"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Tail the change events topic and log every event",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(a.cfg.KafkaBrokers) == 0 {
				return errors.New("KAFKA_BROKERS is empty")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			consumer := events.NewConsumer(a.cfg.KafkaBrokers, a.cfg.ConsumerGroup, a.cfg.Topic, a.logger)
			defer consumer.Close()
			consumer.RegisterHandler(func(_ context.Context, ev events.Event) error {
				a.logger.Info("event",
					zap.String("type", string(ev.Type)),
					zap.String("resource", string(ev.Resource)),
					zap.String("id", ev.ID.String()),
					zap.String("name", ev.Name),
					zap.Time("occurred_at", ev.OccurredAt),
				)
				return nil
			})
			return consumer.Run(ctx)
		},
	}
}
