// Package database handles SQL connection management and migration
// execution using goose. It backs the SQL document store on either
// PostgreSQL (pgx) or SQLite (modernc, pure Go).
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations
var embedMigrations embed.FS

// Driver names accepted by Connect.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Connect opens a connection pool for driver ("postgres" or "sqlite") and
// verifies it with a ping. For SQLite, dsn is a file path.
func Connect(driver, dsn string) (*sql.DB, error) {
	var sqlDriver string
	switch driver {
	case DriverPostgres:
		sqlDriver = "pgx"
	case DriverSQLite:
		sqlDriver = "sqlite"
		dsn = "file:" + dsn + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", driver)
	}

	db, err := sql.Open(sqlDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

// Migrate runs all pending goose migrations for driver from the embedded
// SQL files. Migrations are embedded at compile time so no external files
// are needed at runtime.
func Migrate(db *sql.DB, driver string) error {
	var dialect, dir string
	switch driver {
	case DriverPostgres:
		dialect, dir = "postgres", "migrations/postgres"
	case DriverSQLite:
		dialect, dir = "sqlite3", "migrations/sqlite"
	default:
		return fmt.Errorf("database: unsupported driver %q", driver)
	}

	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied", "driver", driver)
	return nil
}
