package builder

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
)

// stmtWriter accumulates statement text and its ordered params with
// continuing placeholder numbering, so clauses compose into one
// statement. The consumed argument seeds numbering past placeholders
// already emitted by an enclosing builder.
type stmtWriter struct {
	sb     strings.Builder
	params []param.Param
	n      int
}

func newStmtWriter(consumed int) *stmtWriter {
	return &stmtWriter{n: consumed}
}

func (w *stmtWriter) text(s string) {
	w.sb.WriteString(s)
}

func (w *stmtWriter) placeholder(p param.Param) {
	w.params = append(w.params, p)
	w.n++
	w.sb.WriteByte('$')
	w.sb.WriteString(strconv.Itoa(w.n))
}

func (w *stmtWriter) table(t Table) {
	w.placeholder(param.Ident(t.Schema))
	w.sb.WriteByte('.')
	w.placeholder(param.Ident(t.Name))
}

func (w *stmtWriter) statement() param.Statement {
	return param.Statement{Text: w.sb.String(), Params: w.params}
}

// whereClause appends " WHERE ..." for the given conditions. Numeric
// operators are checked for coercible values up front; a failure names
// the 1-based condition position and the record index and aborts the
// build.
func whereClause(w *stmtWriter, filters []FilterCondition, comb Combinator, itemIndex int) error {
	if len(filters) == 0 {
		return nil
	}
	if comb != CombineOr {
		comb = CombineAnd
	}
	w.text(" WHERE ")
	for i, f := range filters {
		if !f.Operator.valid() {
			return &pgerr.ValidationError{
				ItemIndex: itemIndex,
				Field:     f.Column,
				Reason:    fmt.Sprintf("condition %d: unknown operator %q", i+1, string(f.Operator)),
			}
		}
		if f.Operator.Numeric() && !numericCoercible(f.Value) {
			return &pgerr.ValidationError{
				ItemIndex: itemIndex,
				Field:     f.Column,
				Reason:    fmt.Sprintf("condition %d: operator %q requires a numeric value, got %v", i+1, string(f.Operator), f.Value),
			}
		}
		if i > 0 {
			w.text(" " + string(comb) + " ")
		}
		w.placeholder(param.Ident(f.Column))
		w.text(" " + string(f.Operator))
		if f.Operator.NeedsValue() {
			w.text(" ")
			w.placeholder(param.Val(f.Value))
		}
	}
	return nil
}

// orderByClause appends " ORDER BY ..." preserving input order.
func orderByClause(w *stmtWriter, rules []SortRule) {
	if len(rules) == 0 {
		return
	}
	w.text(" ORDER BY ")
	for i, r := range rules {
		if i > 0 {
			w.text(", ")
		}
		w.placeholder(param.Ident(r.Column))
		dir := r.Direction
		if dir != SortDesc {
			dir = SortAsc
		}
		w.text(" " + string(dir))
	}
}

// returningClause appends " RETURNING *" for wildcard output or
// " RETURNING <identifier-list>" otherwise.
func returningClause(w *stmtWriter, columns []string) {
	if isWildcard(columns) {
		w.text(" RETURNING *")
		return
	}
	w.text(" RETURNING ")
	w.placeholder(param.IdentList(columns...))
}

func numericCoercible(v any) bool {
	switch x := v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return err == nil
	case fmt.Stringer:
		_, err := strconv.ParseFloat(strings.TrimSpace(x.String()), 64)
		return err == nil
	default:
		return false
	}
}
