// Package cli wires the filmes-api cobra commands.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/iliyamo/filmes-api/internal/config"
	"github.com/iliyamo/filmes-api/internal/logger"
)

// RootOptions carries what every subcommand needs.  Config and Log are
// filled in by the root command before a subcommand runs.
type RootOptions struct {
	Config config.Config
	Log    *zap.Logger
}

// NewRootCommand creates the root command of the filmes-api binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "filmes-api",
		Short: "Catalog API for theaters, addresses, movies and sessions",
		Long: `filmes-api serves a CRUD API over theaters, their addresses, movies and
the sessions linking movies to theaters.

Configuration is read from the environment and from an optional .env file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log, err := logger.New(cfg.Env)
			if err != nil {
				return err
			}
			opts.Config = cfg
			opts.Log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.Log != nil {
				_ = opts.Log.Sync()
			}
		},
	}

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewAuditCommand(opts))

	return cmd
}
