package engine

import (
	"context"

	"github.com/stratumlabs/pgbatch/builder"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
	"github.com/stratumlabs/pgbatch/runner"
)

// DeleteCommand selects how rows (or the whole table) are removed.
type DeleteCommand string

const (
	CommandDelete   DeleteCommand = "delete"
	CommandTruncate DeleteCommand = "truncate"
	CommandDrop     DeleteCommand = "drop"
)

// DeleteRecord is one input record's filter clauses for row deletes.
type DeleteRecord struct {
	Filters []builder.FilterCondition
}

// DeleteRequest removes rows or the table itself. CommandDelete
// requires at least one filter per record; truncate and drop ignore
// filters and emit one statement per record against the whole table.
type DeleteRequest struct {
	Schema          string
	Table           string
	Mode            runner.ExecutionMode
	Command         DeleteCommand
	Combinator      builder.Combinator
	OutputColumns   []string
	RestartIdentity bool
	Cascade         bool
	Records         []DeleteRecord
}

func (DeleteRequest) OperationName() string { return "delete" }
func (DeleteRequest) isOperation()          {}

// Delete builds and runs the batch for the selected command.
func (e *Engine) Delete(ctx context.Context, req DeleteRequest) (runner.BatchResult, error) {
	records := req.Records
	if len(records) == 0 {
		records = []DeleteRecord{{}}
	}
	table := builder.Table{Schema: req.Schema, Name: req.Table}

	statements := make([]param.Statement, 0, len(records))
	for i, rec := range records {
		switch req.Command {
		case CommandTruncate:
			statements = append(statements, builder.Truncate(table, req.RestartIdentity, req.Cascade))
		case CommandDrop:
			statements = append(statements, builder.Drop(table))
		case CommandDelete, "":
			stmt, err := builder.Delete(builder.DeleteSpec{
				Table:      table,
				Filters:    rec.Filters,
				Combinator: req.Combinator,
				Returning:  req.OutputColumns,
			}, i)
			if err != nil {
				return nil, tagOp(req.OperationName(), err)
			}
			statements = append(statements, stmt)
		default:
			return nil, tagOp(req.OperationName(), &pgerr.ValidationError{
				ItemIndex: i,
				Reason:    "unknown delete command " + string(req.Command),
			})
		}
	}
	return e.runner.Run(ctx, req.OperationName(), statements, req.Mode, e.db)
}
