package engine

import (
	"context"
	"fmt"

	"github.com/stratumlabs/pgbatch/builder"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
	"github.com/stratumlabs/pgbatch/runner"
)

// SelectRecord is one input record's clauses: the per-record filter
// values resolved by the host.
type SelectRecord struct {
	Filters []builder.FilterCondition
}

// SelectRequest reads rows, one statement per input record.
type SelectRequest struct {
	Schema        string
	Table         string
	Mode          runner.ExecutionMode
	OutputColumns []string
	Combinator    builder.Combinator
	Sort          []builder.SortRule
	Limit         int64
	Offset        int64
	Records       []SelectRecord
}

func (SelectRequest) OperationName() string { return "select" }
func (SelectRequest) isOperation()          {}

// Select builds and runs one SELECT per record.
func (e *Engine) Select(ctx context.Context, req SelectRequest) (runner.BatchResult, error) {
	records := req.Records
	if len(records) == 0 {
		records = []SelectRecord{{}}
	}

	statements := make([]param.Statement, 0, len(records))
	for i, rec := range records {
		stmt, err := builder.Select(builder.SelectSpec{
			Table:      builder.Table{Schema: req.Schema, Name: req.Table},
			Columns:    req.OutputColumns,
			Filters:    rec.Filters,
			Combinator: req.Combinator,
			Sort:       req.Sort,
			Limit:      req.Limit,
			Offset:     req.Offset,
		}, i)
		if err != nil {
			return nil, tagOp(req.OperationName(), err)
		}
		statements = append(statements, stmt)
	}
	return e.runner.Run(ctx, req.OperationName(), statements, req.Mode, e.db)
}

// tagOp stamps the operation name onto typed errors that carry one.
func tagOp(op string, err error) error {
	switch e := err.(type) {
	case *pgerr.ValidationError:
		if e.Op == "" {
			e.Op = op
		}
		return e
	case *pgerr.ExecutionError:
		if e.Op == "" {
			e.Op = op
		}
		return e
	}
	return fmt.Errorf("%s: %w", op, err)
}
