// Package sqlcatalog serves the storefront catalog from a SQL database,
// PostgreSQL in deployments and SQLite for local runs and tests.
package sqlcatalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig holds the connection settings. An empty Driver disables the
// database and the in-memory catalog is used instead.
type DatabaseConfig struct {
	Driver   string `env:"DRIVER"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	Name     string `env:"NAME" envDefault:"storefront"`
	User     string `env:"USER" envDefault:"storefront"`
	Password string `env:"PASSWORD"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	Path     string `env:"PATH" envDefault:"storefront.db"`
	Seed     bool   `env:"SEED" envDefault:"true"`
}

// Enabled reports whether a driver is configured.
func (c DatabaseConfig) Enabled() bool { return c.Driver != "" }

// DSN builds the driver-specific connection string.
func (c DatabaseConfig) DSN() (string, error) {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
			c.Host, c.Port, c.Name, c.User, c.Password, c.SSLMode), nil
	case DriverSQLite:
		return c.Path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

// OpenDatabase opens and pings the configured database.
func OpenDatabase(ctx context.Context, cfg DatabaseConfig) (*sql.DB, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s database: %w", cfg.Driver, err)
	}
	return db, nil
}
