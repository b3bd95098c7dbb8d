package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/pgbatch/dialect"
	"github.com/stratumlabs/pgbatch/pgerr"
)

var userColumns = []ColumnInfo{
	{Name: "id", SQLType: "integer", Nullable: false, HasDefault: true},
	{Name: "email", SQLType: "text", Nullable: false},
	{Name: "nickname", SQLType: "text", Nullable: true},
	{Name: "tags", SQLType: "ARRAY", UDTName: "_text", Nullable: false},
	{Name: "scores", SQLType: "ARRAY", UDTName: "_int4", Nullable: true},
}

func pg() dialect.Dialect { return dialect.NewPostgresDialect() }

func TestValidateRowPassThroughWithoutSchema(t *testing.T) {
	row := map[string]any{"anything": "goes", "missing_col": nil}
	out, err := ValidateRow(row, nil, "users", 0, pg())
	require.NoError(t, err)
	assert.Equal(t, row, out)
}

func TestValidateRowUnknownColumn(t *testing.T) {
	_, err := ValidateRow(map[string]any{"emial": "a@b.c"}, userColumns, "users", 3, pg())

	var uerr *pgerr.UnknownColumnError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "emial", uerr.Column)
	assert.Equal(t, "users", uerr.Table)
	assert.Equal(t, 3, uerr.ItemIndex)
}

func TestValidateRowNotNullViolation(t *testing.T) {
	_, err := ValidateRow(map[string]any{"email": nil}, userColumns, "users", 1, pg())

	var nerr *pgerr.NotNullViolationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, "email", nerr.Column)
	assert.Equal(t, 1, nerr.ItemIndex)
}

func TestValidateRowNullableNil(t *testing.T) {
	out, err := ValidateRow(map[string]any{"nickname": nil}, userColumns, "users", 0, pg())
	require.NoError(t, err)
	assert.Contains(t, out, "nickname")
	assert.Nil(t, out["nickname"])
}

func TestValidateRowArrayNormalization(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{name: "HostList", value: []any{"a", "b c"}, want: `{"a","b c"}`},
		{name: "TypedSlice", value: []string{"x", "y"}, want: `{"x","y"}`},
		{name: "JSONString", value: `["a","b"]`, want: `{"a","b"}`},
		{name: "NumericElements", value: []any{float64(1), float64(2)}, want: "{1,2}"},
		{name: "AlreadyLiteral", value: "{a,b}", want: "{a,b}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ValidateRow(map[string]any{"tags": tt.value}, userColumns, "users", 0, pg())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out["tags"])
		})
	}
}

func TestValidateRowNonArrayForNotNullArrayColumn(t *testing.T) {
	_, err := ValidateRow(map[string]any{"tags": 42}, userColumns, "users", 0, pg())

	var verr *pgerr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "tags", verr.Field)
}

func TestValidateRowDoesNotMutateInput(t *testing.T) {
	row := map[string]any{"tags": []any{"a"}}
	_, err := ValidateRow(row, userColumns, "users", 0, pg())
	require.NoError(t, err)
	assert.Equal(t, []any{"a"}, row["tags"])
}
