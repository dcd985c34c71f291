package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver = errors.New("storage: unknown driver")
	ErrDSNRequired   = errors.New("storage: dsn is required")
)

// Options selects the database behind the bun connection.
type Options struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Open connects to the configured database and wraps it with the matching
// bun dialect.
func Open(opts Options) (*bun.DB, error) {
	dsn := strings.TrimSpace(opts.DSN)
	if dsn == "" {
		return nil, ErrDSNRequired
	}

	var (
		sqlDB *sql.DB
		db    *bun.DB
		err   error
	)
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case DriverSQLite, "sqlite3", "":
		sqlDB, err = sql.Open("sqlite3", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open sqlite: %w", err)
		}
		db = bun.NewDB(sqlDB, sqlitedialect.New())
	case DriverPostgres, "pgx":
		sqlDB, err = sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("storage: open postgres: %w", err)
		}
		db = bun.NewDB(sqlDB, pgdialect.New())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	return db, nil
}
