// Package database defines the narrow SQL surface the repositories
// depend on, so storage can be backed by pgxpool in production and by
// plain structs in tests.
package database

import (
	"context"
	"database/sql"
)

// Querier is the query surface shared by the pool and transactions.
// Exec reports affected rows, which the insight store relies on to
// detect conflict-insert losses and missing update targets.
type Querier interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
}

// DB is the connection-pool boundary.
type DB interface {
	Querier

	Ping(ctx context.Context) error
	Close() error

	Begin(ctx context.Context) (Tx, error)

	// SQLDB exposes the stdlib handle for the migration runner.
	SQLDB() *sql.DB
}

type Tx interface {
	Querier

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
