package dialect

import (
	"fmt"
	"strconv"
	"strings"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

// ArrayLiteral renders elems as PostgreSQL array text: brace-delimited,
// comma-joined, non-numeric scalars double-quoted with escaping.
func (Postgres) ArrayLiteral(elems []any) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, e := range elems {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(arrayElement(e))
	}
	sb.WriteByte('}')
	return sb.String()
}

func arrayElement(e any) string {
	switch v := e.(type) {
	case nil:
		return "NULL"
	case bool:
		if v {
			return "true"
		}
		return "false"
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return quoteArrayElement(v)
	default:
		return quoteArrayElement(fmt.Sprint(v))
	}
}

func quoteArrayElement(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
