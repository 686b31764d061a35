package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/queue"
)

// NewAuditCommand creates the audit command.
func NewAuditCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "audit",
		Short: "Log entity change events from RabbitMQ",
		Long: `Consume the entity change queue (RABBITMQ_QUEUE) and write one log line
per event. The consumer reconnects on broker failures until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.Config.AMQP
			if cfg.URL == "" {
				return errors.New("RABBITMQ_URL is not set")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			opts.Log.Info("audit consumer starting", zap.String("queue", cfg.Queue))
			c := &queue.AuditConsumer{URL: cfg.URL, Queue: cfg.Queue, Log: opts.Log}
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
