package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/filmes-api/internal/database"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|rollback|status]",
		Short: "Apply or inspect database migrations",
		Long: `Apply or inspect the database schema.

With DB_DRIVER=mysql the embedded dbmate migrations are used and the
database is created when missing. With DB_DRIVER=sqlite only "up" is
supported; it applies the embedded schema to DB_PATH.`,
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "rollback", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			if len(args) == 1 {
				action = args[0]
			}
			return migrate(cmd, opts, action)
		},
	}
	return cmd
}

func migrate(cmd *cobra.Command, opts *RootOptions, action string) error {
	cfg := opts.Config.DB
	out := cmd.OutOrStdout()

	if cfg.Driver == "sqlite" {
		if action != "up" {
			return fmt.Errorf("migrate %s is not supported for sqlite", action)
		}
		db, err := database.OpenSQLite(cfg.Path)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		fmt.Fprintf(out, "schema applied to %s\n", cfg.Path)
		return nil
	}

	m := database.NewMigrator(cfg, out)
	switch action {
	case "up":
		return m.CreateAndMigrate()
	case "rollback":
		return m.Rollback()
	case "status":
		_, err := m.Status(false)
		return err
	default:
		return fmt.Errorf("unknown migrate action %q", action)
	}
}
