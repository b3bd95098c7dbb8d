package builder

import (
	"strconv"

	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
)

// SelectSpec describes one SELECT statement.
type SelectSpec struct {
	Table      Table
	Columns    []string
	Filters    []FilterCondition
	Combinator Combinator
	Sort       []SortRule
	Limit      int64
	Offset     int64
}

// Select builds a SELECT statement. A wildcard (or empty) column list
// emits an unparameterized *; otherwise the column list is one
// identifier-list param. Limit and Offset are emitted only when
// positive.
func Select(spec SelectSpec, itemIndex int) (param.Statement, error) {
	w := newStmtWriter(0)
	w.text("SELECT ")
	if isWildcard(spec.Columns) {
		w.text(Wildcard)
	} else {
		w.placeholder(param.IdentList(spec.Columns...))
	}
	w.text(" FROM ")
	w.table(spec.Table)
	if err := whereClause(w, spec.Filters, spec.Combinator, itemIndex); err != nil {
		return param.Statement{}, err
	}
	orderByClause(w, spec.Sort)
	if spec.Limit > 0 {
		w.text(" LIMIT " + strconv.FormatInt(spec.Limit, 10))
	}
	if spec.Offset > 0 {
		w.text(" OFFSET " + strconv.FormatInt(spec.Offset, 10))
	}
	return w.statement(), nil
}

// InsertSpec describes one INSERT statement.
type InsertSpec struct {
	Table            Table
	Assignments      []Assignment
	Returning        []string
	OnConflictIgnore bool
}

// Insert builds an INSERT statement. Columns group into one
// identifier-list param and values into one positional tuple. An empty
// assignment set degenerates to DEFAULT VALUES rather than an invalid
// empty column list.
func Insert(spec InsertSpec) (param.Statement, error) {
	w := newStmtWriter(0)
	w.text("INSERT INTO ")
	w.table(spec.Table)
	if len(spec.Assignments) == 0 {
		w.text(" DEFAULT VALUES")
	} else {
		cols := make([]string, len(spec.Assignments))
		vals := make([]any, len(spec.Assignments))
		for i, a := range spec.Assignments {
			cols[i] = a.Column
			vals[i] = a.Value
		}
		w.text(" (")
		w.placeholder(param.IdentList(cols...))
		w.text(") VALUES (")
		w.placeholder(param.ValList(vals...))
		w.text(")")
	}
	if spec.OnConflictIgnore {
		w.text(" ON CONFLICT DO NOTHING")
	}
	returningClause(w, spec.Returning)
	return w.statement(), nil
}

// UpdateSpec describes one UPDATE statement.
type UpdateSpec struct {
	Table       Table
	Assignments []Assignment
	Filters     []FilterCondition
	Combinator  Combinator
	Returning   []string
}

// Update builds an UPDATE statement: each assignment becomes
// <identifier> = <value>, each filter a WHERE predicate. Both an empty
// assignment set and an empty filter set fail validation — an
// unfiltered UPDATE would rewrite the whole table.
func Update(spec UpdateSpec, itemIndex int) (param.Statement, error) {
	if len(spec.Assignments) == 0 {
		return param.Statement{}, &pgerr.ValidationError{
			ItemIndex: itemIndex,
			Reason:    "no columns to update",
		}
	}
	if len(spec.Filters) == 0 {
		return param.Statement{}, &pgerr.ValidationError{
			ItemIndex: itemIndex,
			Reason:    "update requires at least one filter condition",
		}
	}
	w := newStmtWriter(0)
	w.text("UPDATE ")
	w.table(spec.Table)
	w.text(" SET ")
	for i, a := range spec.Assignments {
		if i > 0 {
			w.text(", ")
		}
		w.placeholder(param.Ident(a.Column))
		w.text(" = ")
		w.placeholder(param.Val(a.Value))
	}
	if err := whereClause(w, spec.Filters, spec.Combinator, itemIndex); err != nil {
		return param.Statement{}, err
	}
	returningClause(w, spec.Returning)
	return w.statement(), nil
}

// DeleteSpec describes one DELETE statement.
type DeleteSpec struct {
	Table      Table
	Filters    []FilterCondition
	Combinator Combinator
	Returning  []string
}

// Delete builds a DELETE statement. An empty filter set fails
// validation; table-wide removal goes through Truncate instead.
func Delete(spec DeleteSpec, itemIndex int) (param.Statement, error) {
	if len(spec.Filters) == 0 {
		return param.Statement{}, &pgerr.ValidationError{
			ItemIndex: itemIndex,
			Reason:    "delete requires at least one filter condition",
		}
	}
	w := newStmtWriter(0)
	w.text("DELETE FROM ")
	w.table(spec.Table)
	if err := whereClause(w, spec.Filters, spec.Combinator, itemIndex); err != nil {
		return param.Statement{}, err
	}
	if len(spec.Returning) > 0 {
		returningClause(w, spec.Returning)
	}
	return w.statement(), nil
}

// Truncate builds a TRUNCATE TABLE statement with optional RESTART
// IDENTITY and CASCADE.
func Truncate(t Table, restartIdentity, cascade bool) param.Statement {
	w := newStmtWriter(0)
	w.text("TRUNCATE TABLE ")
	w.table(t)
	if restartIdentity {
		w.text(" RESTART IDENTITY")
	}
	if cascade {
		w.text(" CASCADE")
	}
	return w.statement()
}

// Drop builds a DROP TABLE IF EXISTS statement.
func Drop(t Table) param.Statement {
	w := newStmtWriter(0)
	w.text("DROP TABLE IF EXISTS ")
	w.table(t)
	return w.statement()
}
