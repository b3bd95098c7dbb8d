package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/stratumlabs/pgbatch/dialect"
	"github.com/stratumlabs/pgbatch/pgerr"
)

// ValidateRow checks a proposed column→value mapping against the
// table's columns and returns the row to hand to the builder, with
// array-typed values normalized to PostgreSQL array literal text. The
// input map is never mutated. An empty column slice disables
// validation entirely and returns the row as-is.
func ValidateRow(item map[string]any, columns []ColumnInfo, table string, itemIndex int, d dialect.Dialect) (map[string]any, error) {
	if len(columns) == 0 {
		return item, nil
	}

	out := make(map[string]any, len(item))
	for key, value := range item {
		col, ok := findColumn(columns, key)
		if !ok {
			return nil, &pgerr.UnknownColumnError{Column: key, Table: table, ItemIndex: itemIndex}
		}
		if value == nil {
			if !col.Nullable {
				return nil, &pgerr.NotNullViolationError{Column: key, ItemIndex: itemIndex}
			}
			out[key] = nil
			continue
		}
		if col.IsArray() {
			lit, err := arrayLiteral(value, d)
			if err != nil {
				if col.Nullable {
					// A nullable array column tolerates a scalar; the
					// database will reject it with its own error if the
					// cast fails.
					out[key] = value
					continue
				}
				return nil, &pgerr.ValidationError{
					ItemIndex: itemIndex,
					Field:     key,
					Reason:    err.Error(),
				}
			}
			out[key] = lit
			continue
		}
		out[key] = value
	}
	return out, nil
}

// arrayLiteral normalizes a host-native list, or a JSON array encoded
// as a string, into array literal text.
func arrayLiteral(value any, d dialect.Dialect) (string, error) {
	switch v := value.(type) {
	case string:
		trimmed := strings.TrimSpace(v)
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			// Already literal text.
			return trimmed, nil
		}
		var elems []any
		if err := json.Unmarshal([]byte(trimmed), &elems); err != nil {
			return "", fmt.Errorf("value %q is not an array", v)
		}
		return d.ArrayLiteral(elems), nil
	case []any:
		return d.ArrayLiteral(v), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return d.ArrayLiteral(elems), nil
	}
	return "", fmt.Errorf("value of type %T is not an array", value)
}
