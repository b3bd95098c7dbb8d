package engine

import (
	"context"

	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/runner"
)

// RawRecord is one free-form statement. Params takes precedence over
// RawParams when both are set; RawParams goes through the resolver
// (expression markers, comma splitting, legacy placeholder rule).
type RawRecord struct {
	Query     string
	Params    []any
	RawParams string
}

// RawRequest executes caller-authored statements, one per record. Only
// the values are parameterized; the statement text is the caller's own.
type RawRequest struct {
	Mode    runner.ExecutionMode
	Records []RawRecord
}

func (RawRequest) OperationName() string { return "executeRaw" }
func (RawRequest) isOperation()          {}

// ExecuteRaw resolves each record's parameter source and runs the
// batch.
func (e *Engine) ExecuteRaw(ctx context.Context, req RawRequest) (runner.BatchResult, error) {
	statements := make([]param.Statement, 0, len(req.Records))
	for _, rec := range req.Records {
		text := rec.Query
		values := rec.Params
		if values == nil {
			var err error
			text, values, err = e.resolver.Resolve(rec.Query, rec.RawParams)
			if err != nil {
				return nil, tagOp(req.OperationName(), err)
			}
		}
		params := make([]param.Param, len(values))
		for i, v := range values {
			params[i] = param.Val(v)
		}
		statements = append(statements, param.Statement{Text: text, Params: params, Raw: true})
	}
	return e.runner.Run(ctx, req.OperationName(), statements, req.Mode, e.db)
}
