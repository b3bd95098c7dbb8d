// Package engine exposes the operation contract: one entry point per
// verb, each taking per-record structured inputs and an execution mode
// and returning one result row set per input record, in record order.
package engine

import (
	"context"
	"log/slog"

	"github.com/stratumlabs/pgbatch/database"
	"github.com/stratumlabs/pgbatch/dialect"
	"github.com/stratumlabs/pgbatch/resolver"
	"github.com/stratumlabs/pgbatch/runner"
	"github.com/stratumlabs/pgbatch/schema"
)

// Engine wires the validator, builder, resolver and runner around one
// Database capability. It holds no per-call state; the schema snapshot
// fetched for a batch lives only for that batch.
type Engine struct {
	db       database.Database
	catalog  schema.Catalog
	dialect  dialect.Dialect
	runner   *runner.Runner
	resolver resolver.Resolver
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog enables schema validation on write paths. Without a
// catalog, validation is a pass-through.
func WithCatalog(c schema.Catalog) Option {
	return func(e *Engine) { e.catalog = c }
}

// WithLogger sets the logger shared with the batch runner.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) {
		e.log = log
		e.runner = runner.New(log)
	}
}

// WithResolver configures free-form statement resolution.
func WithResolver(r resolver.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

func New(db database.Database, opts ...Option) *Engine {
	e := &Engine{
		db:      db,
		dialect: dialect.NewPostgresDialect(),
		log:     slog.Default(),
	}
	e.runner = runner.New(e.log)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Operation is the closed set of per-verb requests. Exactly the five
// request types in this package implement it.
type Operation interface {
	OperationName() string
	isOperation()
}

// Execute dispatches an operation to its verb's entry point.
func (e *Engine) Execute(ctx context.Context, op Operation) (runner.BatchResult, error) {
	switch req := op.(type) {
	case SelectRequest:
		return e.Select(ctx, req)
	case InsertRequest:
		return e.Insert(ctx, req)
	case UpdateRequest:
		return e.Update(ctx, req)
	case DeleteRequest:
		return e.Delete(ctx, req)
	case RawRequest:
		return e.ExecuteRaw(ctx, req)
	}
	// Unreachable while Operation stays closed.
	panic("unknown operation type")
}

// Catalog returns the engine's catalog, or nil when validation is
// disabled.
func (e *Engine) Catalog() schema.Catalog { return e.catalog }

// columnsFor fetches the table's columns when a catalog is configured.
// A nil catalog yields an empty slice, which downstream validation
// treats as a pass-through.
func (e *Engine) columnsFor(ctx context.Context, schemaName, table string) ([]schema.ColumnInfo, error) {
	if e.catalog == nil {
		return nil, nil
	}
	return e.catalog.ListColumns(ctx, schemaName, table)
}
