package engine

import (
	"context"

	"github.com/stratumlabs/pgbatch/builder"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
	"github.com/stratumlabs/pgbatch/runner"
	"github.com/stratumlabs/pgbatch/schema"
)

// UpdateRequest updates rows matched per record. MatchColumns name the
// columns whose record values identify the target rows; the remaining
// record columns become the SET list. The match predicate is built
// through the same filter-clause path as explicit WHERE filters.
type UpdateRequest struct {
	Schema        string
	Table         string
	Mode          runner.ExecutionMode
	OutputColumns []string
	MatchColumns  []string
	Records       []map[string]any
}

func (UpdateRequest) OperationName() string { return "update" }
func (UpdateRequest) isOperation()          {}

// Update validates each record, synthesizes equality filters from the
// matching columns and runs one UPDATE per record.
func (e *Engine) Update(ctx context.Context, req UpdateRequest) (runner.BatchResult, error) {
	if len(req.MatchColumns) == 0 {
		return nil, tagOp(req.OperationName(), &pgerr.ValidationError{
			Reason: "update requires at least one column to match on",
		})
	}

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

		filters, set, err := splitMatchColumns(row, req.MatchColumns, i)
		if err != nil {
			return nil, tagOp(req.OperationName(), err)
		}

		stmt, err := builder.Update(builder.UpdateSpec{
			Table:       builder.Table{Schema: req.Schema, Name: req.Table},
			Assignments: set,
			Filters:     filters,
			Combinator:  builder.CombineAnd,
			Returning:   req.OutputColumns,
		}, i)
		if err != nil {
			return nil, tagOp(req.OperationName(), err)
		}
		statements = append(statements, stmt)
	}
	return e.runner.Run(ctx, req.OperationName(), statements, req.Mode, e.db)
}

// splitMatchColumns partitions a row into the equality filters derived
// from the matching columns and the assignments for everything else.
func splitMatchColumns(row map[string]any, matchColumns []string, itemIndex int) ([]builder.FilterCondition, []builder.Assignment, error) {
	match := make(map[string]bool, len(matchColumns))
	filters := make([]builder.FilterCondition, 0, len(matchColumns))
	for _, col := range matchColumns {
		value, ok := row[col]
		if !ok {
			return nil, nil, &pgerr.ValidationError{
				ItemIndex: itemIndex,
				Field:     col,
				Reason:    "record has no value for matching column",
			}
		}
		match[col] = true
		filters = append(filters, builder.FilterCondition{
			Column:   col,
			Operator: builder.OpEqual,
			Value:    value,
		})
	}

	var set []builder.Assignment
	for _, a := range assignments(row) {
		if !match[a.Column] {
			set = append(set, a)
		}
	}
	return filters, set, nil
}
