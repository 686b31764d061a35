package database

import (
	"context"
	"embed"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"github.com/amacneil/dbmate/v2/pkg/dbmate"
	_ "github.com/amacneil/dbmate/v2/pkg/driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/filmes-api/internal/config"
)

//go:embed migrations
var migrationsFS embed.FS

const mysqlMigrationsDir = "migrations/mysql"

// MySQLURL renders the dbmate connection URL for cfg.
func MySQLURL(cfg config.DBConfig) *url.URL {
	u := &url.URL{
		Scheme: "mysql",
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	if cfg.Pass != "" {
		u.User = url.UserPassword(cfg.User, cfg.Pass)
	} else {
		u.User = url.User(cfg.User)
	}
	return u
}

// NewMigrator returns a dbmate instance reading the embedded MySQL
// migrations.  Output is written to w when it is non-nil.
func NewMigrator(cfg config.DBConfig, w io.Writer) *dbmate.DB {
	m := dbmate.New(MySQLURL(cfg))
	m.FS = migrationsFS
	m.MigrationsDir = []string{mysqlMigrationsDir}
	m.AutoDumpSchema = false
	if w != nil {
		m.Log = w
	}
	return m
}

// Migrate brings the configured store up to date.  MySQL goes through
// dbmate; SQLite applies the idempotent embedded schema.
func Migrate(ctx context.Context, cfg config.DBConfig, db *sqlx.DB, w io.Writer) error {
	if cfg.Driver == "sqlite" {
		return ApplySQLiteSchema(ctx, db)
	}
	return NewMigrator(cfg, w).CreateAndMigrate()
}

// ApplySQLiteSchema executes the embedded SQLite schema statement by
// statement.
func ApplySQLiteSchema(ctx context.Context, db *sqlx.DB) error {
	raw, err := migrationsFS.ReadFile("migrations/sqlite/schema.sql")
	if err != nil {
		return fmt.Errorf("read sqlite schema: %w", err)
	}
	for _, stmt := range strings.Split(string(raw), ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}
