// Package builder turns structured clause descriptions into
// parameterized statements. Builders are pure: identical input yields a
// byte-identical statement, and no builder performs I/O. Every
// schema/table/column name becomes an identifier param and every
// literal a value param; nothing caller-supplied is ever spliced into
// statement text here.
package builder

// Operator is a filter comparison operator.
type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpGreater      Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLess         Operator = "<"
	OpLessEqual    Operator = "<="
	OpLike         Operator = "LIKE"
	OpILike        Operator = "ILIKE"
	OpIsNull       Operator = "IS NULL"
	OpIsNotNull    Operator = "IS NOT NULL"
)

// NeedsValue reports whether the operator takes a right-hand value.
// The two null checks do not.
func (o Operator) NeedsValue() bool {
	return o != OpIsNull && o != OpIsNotNull
}

// Numeric reports whether the operator requires a numeric-coercible
// right-hand value.
func (o Operator) Numeric() bool {
	switch o {
	case OpGreater, OpGreaterEqual, OpLess, OpLessEqual:
		return true
	}
	return false
}

func (o Operator) valid() bool {
	switch o {
	case OpEqual, OpNotEqual, OpGreater, OpGreaterEqual, OpLess, OpLessEqual,
		OpLike, OpILike, OpIsNull, OpIsNotNull:
		return true
	}
	return false
}

// Combinator joins the conditions of one WHERE clause. It is uniform
// across the clause, not per condition.
type Combinator string

const (
	CombineAnd Combinator = "AND"
	CombineOr  Combinator = "OR"
)

// FilterCondition is one WHERE predicate. Value is ignored for the
// null-check operators.
type FilterCondition struct {
	Column   string
	Operator Operator
	Value    any
}

// SortDirection for an ORDER BY entry.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

// SortRule is one ORDER BY entry; input order is preserved in the
// emitted clause. Unrecognized directions fall back to ASC.
type SortRule struct {
	Column    string
	Direction SortDirection
}

// Assignment is one column/value pair, used for both INSERT columns and
// UPDATE SET pairs.
type Assignment struct {
	Column string
	Value  any
}

// Table names a schema-qualified table.
type Table struct {
	Schema string
	Name   string
}

// Wildcard is the output-column sentinel that selects every column
// unparameterized.
const Wildcard = "*"

func isWildcard(columns []string) bool {
	for _, c := range columns {
		if c == Wildcard {
			return true
		}
	}
	return len(columns) == 0
}
