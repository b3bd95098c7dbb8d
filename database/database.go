// Package database defines the execution capability the batch runner
// consumes, plus its pgx implementation. One Database stands for one
// logical connection's worth of work: statements execute sequentially
// and a transaction scope borrows the same capability shape.
package database

import (
	"context"

	"github.com/stratumlabs/pgbatch/param"
)

// Row is one result row keyed by column name.
type Row = map[string]any

// Executor runs one built statement and returns its rows. Both the
// autocommit path and the transaction-scoped path satisfy it.
type Executor interface {
	Execute(ctx context.Context, stmt param.Statement) ([]Row, error)
}

// Database is the capability handed to the batch runner. WithTransaction
// opens one transaction, passes a transaction-scoped Executor to fn, and
// commits only if fn returns nil; any error rolls the whole transaction
// back and is returned unchanged.
type Database interface {
	Executor
	WithTransaction(ctx context.Context, fn func(tx Executor) error) error
	Ping(ctx context.Context) error
	Close()
}
