package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/stratumlabs/pgbatch/dialect"
	"github.com/stratumlabs/pgbatch/param"
)

// PgxDatabase implements Database over a pgx connection pool. Rendering
// (identifier splicing and value renumbering) happens here, at the last
// moment before the driver sees the statement.
type PgxDatabase struct {
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// NewPgxDatabase wraps a pool. The dialect governs identifier quoting
// during rendering.
func NewPgxDatabase(pool *pgxpool.Pool, d dialect.Dialect) *PgxDatabase {
	return &PgxDatabase{pool: pool, dialect: d}
}

// Execute renders and runs one statement as its own autocommit unit.
func (p *PgxDatabase) Execute(ctx context.Context, stmt param.Statement) ([]Row, error) {
	text, args, err := dialect.Render(p.dialect, stmt)
	if err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

// WithTransaction runs fn inside one transaction on one connection.
func (p *PgxDatabase) WithTransaction(ctx context.Context, fn func(tx Executor) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(&txExecutor{tx: tx, dialect: p.dialect}); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}

// Ping verifies the pool can reach the server.
func (p *PgxDatabase) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close releases the pool.
func (p *PgxDatabase) Close() {
	p.pool.Close()
}

// DB exposes the pool through the standard library interface, for
// callers that need to hand a *sql.DB to other tooling.
func (p *PgxDatabase) DB() *sql.DB {
	return stdlib.OpenDBFromPool(p.pool)
}

type txExecutor struct {
	tx      pgx.Tx
	dialect dialect.Dialect
}

func (t *txExecutor) Execute(ctx context.Context, stmt param.Statement) ([]Row, error) {
	text, args, err := dialect.Render(t.dialect, stmt)
	if err != nil {
		return nil, err
	}
	rows, err := t.tx.Query(ctx, text, args...)
	if err != nil {
		return nil, err
	}
	return collectRows(rows)
}

func collectRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := make([]Row, 0, 8)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

var _ Database = (*PgxDatabase)(nil)
