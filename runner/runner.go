// Package runner executes batches of built statements against one
// Database capability under a selected execution mode.
package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oklog/ulid/v2"

	"github.com/stratumlabs/pgbatch/database"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
)

// ExecutionMode selects how a batch's statements relate to each other
// on failure. It is fixed for the whole batch.
type ExecutionMode string

const (
	// Single issues each statement as its own autocommit unit and
	// aborts the batch on the first failure.
	Single ExecutionMode = "single"
	// Transaction issues every statement inside one transaction;
	// any failure rolls back the entire batch and propagates.
	Transaction ExecutionMode = "transaction"
	// Independent issues each statement as its own autocommit unit
	// and records failures instead of aborting, so one record's
	// failure never affects its siblings.
	Independent ExecutionMode = "independent"
)

func (m ExecutionMode) valid() bool {
	switch m {
	case Single, Transaction, Independent:
		return true
	}
	return false
}

// Outcome is one statement's result. Err is set only in Independent
// mode, where a failed position still contributes an empty entry so
// positional correspondence with the input batch holds.
type Outcome struct {
	Rows []database.Row
	Err  error
}

// BatchResult holds per-statement outcomes in input order.
type BatchResult []Outcome

// Rows flattens all outcome rows in statement order.
func (r BatchResult) Rows() []database.Row {
	var out []database.Row
	for _, o := range r {
		out = append(out, o.Rows...)
	}
	return out
}

// Runner executes batches sequentially on one Database. Statements are
// never run concurrently within a batch: Transaction correctness and
// Independent error isolation both depend on strict ordering, and later
// writes may depend on earlier ones.
type Runner struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Runner {
	if log == nil {
		log = slog.Default()
	}
	return &Runner{log: log}
}

// Run executes the statements under the given mode. Each batch gets a
// ULID carried in log fields for correlation. On failure in Single or
// Transaction mode the returned error is an ExecutionError naming the
// 0-based failed statement index; Independent mode always returns a
// full-length result and logs a warning per failed statement.
func (r *Runner) Run(ctx context.Context, op string, statements []param.Statement, mode ExecutionMode, db database.Database) (BatchResult, error) {
	if !mode.valid() {
		return nil, fmt.Errorf("%s: unknown execution mode %q", op, string(mode))
	}

	log := r.log.With(
		slog.String("operation", op),
		slog.String("batch_id", ulid.Make().String()),
		slog.Int("statements", len(statements)),
	)

	switch mode {
	case Transaction:
		return r.runTransaction(ctx, op, statements, db, log)
	case Independent:
		return r.runIndependent(ctx, op, statements, db, log)
	default:
		return r.runSingle(ctx, op, statements, db, log)
	}
}

func (r *Runner) runSingle(ctx context.Context, op string, statements []param.Statement, db database.Database, log *slog.Logger) (BatchResult, error) {
	result := make(BatchResult, 0, len(statements))
	for i, stmt := range statements {
		rows, err := db.Execute(ctx, stmt)
		if err != nil {
			log.ErrorContext(ctx, "batch aborted", slog.Int("index", i), slog.Any("error", err))
			return nil, &pgerr.ExecutionError{Op: op, Index: i, Err: err}
		}
		result = append(result, Outcome{Rows: rows})
	}
	return result, nil
}

func (r *Runner) runTransaction(ctx context.Context, op string, statements []param.Statement, db database.Database, log *slog.Logger) (BatchResult, error) {
	result := make(BatchResult, 0, len(statements))
	err := db.WithTransaction(ctx, func(tx database.Executor) error {
		for i, stmt := range statements {
			rows, err := tx.Execute(ctx, stmt)
			if err != nil {
				return &pgerr.ExecutionError{Op: op, Index: i, Err: err}
			}
			result = append(result, Outcome{Rows: rows})
		}
		return nil
	})
	if err != nil {
		// Partial results were rolled back with the transaction.
		log.ErrorContext(ctx, "transaction rolled back", slog.Any("error", err))
		return nil, err
	}
	return result, nil
}

func (r *Runner) runIndependent(ctx context.Context, op string, statements []param.Statement, db database.Database, log *slog.Logger) (BatchResult, error) {
	result := make(BatchResult, 0, len(statements))
	for i, stmt := range statements {
		rows, err := db.Execute(ctx, stmt)
		if err != nil {
			log.WarnContext(ctx, "statement failed, continuing batch",
				slog.Int("index", i), slog.Any("error", err))
			result = append(result, Outcome{Rows: []database.Row{}, Err: &pgerr.ExecutionError{Op: op, Index: i, Err: err}})
			continue
		}
		result = append(result, Outcome{Rows: rows})
	}
	return result, nil
}
