package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmytro-makovoz/bookingsapp-sub000/internal/queue"
)

var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append ledger events from RabbitMQ to the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, cfg.Events.AuditLog, log)
		log.Info("consuming", zap.String("queue", cfg.Events.Queue), zap.String("audit_log", cfg.Events.AuditLog))
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}
