package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL engine behind a DB.
type Dialect string

const (
	MySQL    Dialect = "mysql"
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

func init() {
	// sqlx does not know the modernc driver name; it uses ? placeholders.
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// DriverName is the database/sql driver registered for the dialect.
func (d Dialect) DriverName() string {
	if d == Postgres {
		return "pgx"
	}
	return string(d)
}

// Options describe how to reach the database.  DSN wins over the parts.
type Options struct {
	Dialect  Dialect
	DSN      string
	User     string
	Pass     string
	Host     string
	Port     string
	Name     string
	MaxConns int
}

// DB wraps the sqlx connection pool together with its dialect.
type DB struct {
	*sqlx.DB
	Dialect Dialect
}

// Open connects to the configured database and verifies the connection.
func Open(ctx context.Context, opts Options) (*DB, error) {
	dsn := opts.DSN
	if dsn == "" {
		dsn = buildDSN(opts)
	}

	db, err := sqlx.Open(opts.Dialect.DriverName(), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Dialect, err)
	}

	// Pool settings
	if opts.Dialect == SQLite {
		// One connection keeps ":memory:" databases shared and serializes writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		maxConns := opts.MaxConns
		if maxConns <= 0 {
			maxConns = 25
		}
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	// Ping with timeout
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", opts.Dialect, err)
	}

	if opts.Dialect == SQLite {
		for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
			if _, err := db.ExecContext(ctx, pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
			}
		}
	}

	return &DB{DB: db, Dialect: opts.Dialect}, nil
}

// Health checks if the database answers.
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

func buildDSN(opts Options) string {
	switch opts.Dialect {
	case Postgres:
		port := opts.Port
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(opts.User, opts.Pass),
			Host:     opts.Host + ":" + port,
			Path:     "/" + opts.Name,
			RawQuery: "sslmode=disable",
		}
		if opts.Pass == "" {
			u.User = url.User(opts.User)
		}
		return u.String()
	default:
		port := opts.Port
		if port == "" {
			port = "3306"
		}
		auth := opts.User
		if opts.Pass != "" {
			auth = fmt.Sprintf("%s:%s", opts.User, opts.Pass)
		}
		// parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
		return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
			auth, opts.Host, port, opts.Name)
	}
}
