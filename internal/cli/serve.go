package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/config"
	"github.com/iliyamo/filmes-api/internal/database"
	"github.com/iliyamo/filmes-api/internal/queue"
	"github.com/iliyamo/filmes-api/internal/router"
)

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	var shutdownTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, opts, shutdownTimeout)
		},
	}
	cmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 10*time.Second, "grace period for in-flight requests")
	return cmd
}

func serve(ctx context.Context, opts *RootOptions, shutdownTimeout time.Duration) error {
	cfg, log := opts.Config, opts.Log

	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, cfg.DB, db, nil); err != nil {
			return err
		}
		log.Info("database migrated", zap.String("driver", cfg.DB.Driver))
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn("redis unavailable; cache and rate limit disabled", zap.String("addr", cfg.Redis.Address()))
	} else {
		defer func() { _ = rdb.Close() }()
	}

	pub := queue.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Queue, log)
	if cfg.AMQP.URL == "" {
		log.Info("RABBITMQ_URL not set; entity events disabled")
	}

	e := router.New(router.Deps{Config: cfg, DB: db, Redis: rdb, Events: pub, Log: log})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.Bool("auth", cfg.Auth.Enabled()))
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
