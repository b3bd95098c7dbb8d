package dialect

import (
	"fmt"
	"strings"

	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
)

// Render turns a built statement into driver-ready SQL. Identifier
// params are spliced into the text as quoted names; value params are
// renumbered into consecutive driver placeholders and returned as
// positional arguments. Placeholders must appear as $1..$n in strictly
// increasing order and correspond 1:1 with stmt.Params; any mismatch is
// a BuildError.
//
// Raw statements skip rewriting entirely: the caller authored the
// placeholders, so the text passes through and only the flattened
// values are returned.
func Render(d Dialect, stmt param.Statement) (string, []any, error) {
	if stmt.Raw {
		for _, p := range stmt.Params {
			if p.IsIdentifier() {
				return "", nil, &pgerr.BuildError{Reason: "raw statement carries an identifier param"}
			}
		}
		return stmt.Text, stmt.Values(), nil
	}

	var (
		sb   strings.Builder
		args []any
		seen int
		vals int
	)
	sb.Grow(len(stmt.Text) + 16*len(stmt.Params))

	text := stmt.Text
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '$' || i+1 >= len(text) || !isDigit(text[i+1]) {
			sb.WriteByte(c)
			continue
		}
		n := 0
		j := i + 1
		for j < len(text) && isDigit(text[j]) {
			n = n*10 + int(text[j]-'0')
			j++
		}
		i = j - 1

		if n != seen+1 {
			return "", nil, &pgerr.BuildError{Reason: fmt.Sprintf("placeholder $%d out of order, expected $%d", n, seen+1)}
		}
		if n > len(stmt.Params) {
			return "", nil, &pgerr.BuildError{Reason: fmt.Sprintf("placeholder $%d has no matching param (%d params)", n, len(stmt.Params))}
		}
		seen = n

		switch p := stmt.Params[n-1]; p.Kind {
		case param.KindIdentifier:
			sb.WriteString(d.QuoteIdentifier(p.Name))
		case param.KindIdentifierList:
			for k, name := range p.Names {
				if k > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(d.QuoteIdentifier(name))
			}
		case param.KindValue:
			vals++
			sb.WriteString(d.Placeholder(vals))
			args = append(args, p.Val)
		case param.KindValueList:
			for k, v := range p.Vals {
				if k > 0 {
					sb.WriteString(", ")
				}
				vals++
				sb.WriteString(d.Placeholder(vals))
				args = append(args, v)
			}
		}
	}

	if seen != len(stmt.Params) {
		return "", nil, &pgerr.BuildError{Reason: fmt.Sprintf("%d params but only %d placeholders in text", len(stmt.Params), seen)}
	}
	return sb.String(), args, nil
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
