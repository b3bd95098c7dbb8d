package engine

import (
	"context"
	"sort"

	"github.com/stratumlabs/pgbatch/builder"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/runner"
	"github.com/stratumlabs/pgbatch/schema"
)

// InsertRequest inserts one row per input record. An empty record maps
// to the DEFAULT VALUES form.
type InsertRequest struct {
	Schema           string
	Table            string
	Mode             runner.ExecutionMode
	OutputColumns    []string
	OnConflictIgnore bool
	Records          []map[string]any
}

func (InsertRequest) OperationName() string { return "insert" }
func (InsertRequest) isOperation()          {}

// Insert validates each record against the table schema, builds one
// INSERT per record and runs the batch.
func (e *Engine) Insert(ctx context.Context, req InsertRequest) (runner.BatchResult, error) {
	columns, err := e.columnsFor(ctx, req.Schema, req.Table)
	if err != nil {
		return nil, tagOp(req.OperationName(), err)
	}

	statements := make([]param.Statement, 0, len(req.Records))
	for i, record := range req.Records {
		row, err := schema.ValidateRow(record, columns, req.Table, i, e.dialect)
		if err != nil {
			return nil, tagOp(req.OperationName(), err)
		}
		stmt, err := builder.Insert(builder.InsertSpec{
			Table:            builder.Table{Schema: req.Schema, Name: req.Table},
			Assignments:      assignments(row),
			Returning:        req.OutputColumns,
			OnConflictIgnore: req.OnConflictIgnore,
		})
		if err != nil {
			return nil, tagOp(req.OperationName(), err)
		}
		statements = append(statements, stmt)
	}
	return e.runner.Run(ctx, req.OperationName(), statements, req.Mode, e.db)
}

// assignments flattens a row map into column-sorted assignment pairs.
// Sorting keeps builds deterministic across Go's map iteration order.
func assignments(row map[string]any) []builder.Assignment {
	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]builder.Assignment, len(keys))
	for i, k := range keys {
		out[i] = builder.Assignment{Column: k, Value: row[k]}
	}
	return out
}
