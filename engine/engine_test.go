package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumlabs/pgbatch/builder"
	"github.com/stratumlabs/pgbatch/database"
	"github.com/stratumlabs/pgbatch/dialect"
	"github.com/stratumlabs/pgbatch/param"
	"github.com/stratumlabs/pgbatch/pgerr"
	"github.com/stratumlabs/pgbatch/resolver"
	"github.com/stratumlabs/pgbatch/runner"
	"github.com/stratumlabs/pgbatch/schema"
)

// fakeDB renders every statement so tests can assert on the final SQL
// the driver would see, and replays one canned row per statement.
type fakeDB struct {
	rendered []string
	args     [][]any
	failAt   map[int]error
}

func (f *fakeDB) Execute(_ context.Context, stmt param.Statement) ([]database.Row, error) {
	text, args, err := dialect.Render(dialect.NewPostgresDialect(), stmt)
	if err != nil {
		return nil, err
	}
	i := len(f.rendered)
	f.rendered = append(f.rendered, text)
	f.args = append(f.args, args)
	if err, ok := f.failAt[i]; ok {
		return nil, err
	}
	return []database.Row{{"n": i}}, nil
}

func (f *fakeDB) WithTransaction(ctx context.Context, fn func(tx database.Executor) error) error {
	return fn(f)
}

func (f *fakeDB) Ping(context.Context) error { return nil }
func (f *fakeDB) Close()                     {}

// fixedCatalog serves one table's columns.
type fixedCatalog struct {
	columns []schema.ColumnInfo
}

func (c *fixedCatalog) ListColumns(context.Context, string, string) ([]schema.ColumnInfo, error) {
	return c.columns, nil
}
func (c *fixedCatalog) ListEnumValues(context.Context, string) ([]string, error) { return nil, nil }
func (c *fixedCatalog) ListSchemas(context.Context) ([]string, error)            { return nil, nil }
func (c *fixedCatalog) ListTables(context.Context, string) ([]string, error)     { return nil, nil }

var testColumns = []schema.ColumnInfo{
	{Name: "id", SQLType: "integer", Nullable: false, HasDefault: true},
	{Name: "email", SQLType: "text", Nullable: false},
	{Name: "age", SQLType: "integer", Nullable: true},
}

func newTestEngine(db database.Database) *Engine {
	return New(db, WithCatalog(&fixedCatalog{columns: testColumns}))
}

func TestSelectPerRecord(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	result, err := e.Select(context.Background(), SelectRequest{
		Schema: "public", Table: "users",
		Mode:          runner.Single,
		OutputColumns: []string{"id", "email"},
		Combinator:    builder.CombineAnd,
		Records: []SelectRecord{
			{Filters: []builder.FilterCondition{{Column: "age", Operator: builder.OpGreater, Value: 30}}},
			{Filters: []builder.FilterCondition{{Column: "age", Operator: builder.OpLessEqual, Value: 30}}},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, `SELECT "id", "email" FROM "public"."users" WHERE "age" > $1`, db.rendered[0])
	assert.Equal(t, `SELECT "id", "email" FROM "public"."users" WHERE "age" <= $1`, db.rendered[1])
	assert.Equal(t, []any{30}, db.args[0])
}

func TestSelectDefaultsToOneStatement(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	result, err := e.Select(context.Background(), SelectRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
	})
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, `SELECT * FROM "public"."users"`, db.rendered[0])
}

func TestSelectNonNumericFilterFailsBeforeExecution(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	_, err := e.Select(context.Background(), SelectRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []SelectRecord{
			{Filters: []builder.FilterCondition{{Column: "age", Operator: builder.OpGreater, Value: "abc"}}},
		},
	})
	require.Error(t, err)

	var verr *pgerr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "select", verr.Op)
	assert.Contains(t, verr.Reason, "condition 1")
	// Nothing reached the database.
	assert.Empty(t, db.rendered)
}

func TestInsertValidatesAndBuilds(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	result, err := e.Insert(context.Background(), InsertRequest{
		Schema: "public", Table: "users",
		Mode: runner.Single,
		Records: []map[string]any{
			{"email": "a@b.c", "age": 30},
			{},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, `INSERT INTO "public"."users" ("age", "email") VALUES ($1, $2) RETURNING *`, db.rendered[0])
	assert.Equal(t, []any{30, "a@b.c"}, db.args[0])
	assert.Equal(t, `INSERT INTO "public"."users" DEFAULT VALUES RETURNING *`, db.rendered[1])
}

func TestInsertUnknownColumnRejected(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	_, err := e.Insert(context.Background(), InsertRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []map[string]any{{"emial": "a@b.c"}},
	})

	var uerr *pgerr.UnknownColumnError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "emial", uerr.Column)
	assert.Empty(t, db.rendered)
}

func TestInsertNotNullRejected(t *testing.T) {
	e := newTestEngine(&fakeDB{})

	_, err := e.Insert(context.Background(), InsertRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []map[string]any{{"email": "a@b.c"}, {"email": nil}},
	})

	var nerr *pgerr.NotNullViolationError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, 1, nerr.ItemIndex)
}

func TestInsertWithoutCatalogSkipsValidation(t *testing.T) {
	db := &fakeDB{}
	e := New(db) // no catalog: validation is a pass-through

	_, err := e.Insert(context.Background(), InsertRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []map[string]any{{"whatever": 1}},
	})
	require.NoError(t, err)
	assert.Len(t, db.rendered, 1)
}

func TestUpdateMatchingColumns(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	_, err := e.Update(context.Background(), UpdateRequest{
		Schema: "public", Table: "users",
		Mode:         runner.Single,
		MatchColumns: []string{"id"},
		Records:      []map[string]any{{"id": 7, "email": "new@b.c"}},
	})
	require.NoError(t, err)

	assert.Equal(t, `UPDATE "public"."users" SET "email" = $1 WHERE "id" = $2 RETURNING *`, db.rendered[0])
	assert.Equal(t, []any{"new@b.c", 7}, db.args[0])
}

func TestUpdateMissingMatchValue(t *testing.T) {
	e := newTestEngine(&fakeDB{})

	_, err := e.Update(context.Background(), UpdateRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		MatchColumns: []string{"id"},
		Records:      []map[string]any{{"email": "new@b.c"}},
	})

	var verr *pgerr.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "id", verr.Field)
}

func TestUpdateRequiresMatchColumns(t *testing.T) {
	e := newTestEngine(&fakeDB{})
	_, err := e.Update(context.Background(), UpdateRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []map[string]any{{"id": 1, "email": "x@y.z"}},
	})
	var verr *pgerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestDeleteCommands(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)
	ctx := context.Background()

	_, err := e.Delete(ctx, DeleteRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Records: []DeleteRecord{
			{Filters: []builder.FilterCondition{{Column: "id", Operator: builder.OpEqual, Value: 1}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `DELETE FROM "public"."users" WHERE "id" = $1`, db.rendered[0])

	_, err = e.Delete(ctx, DeleteRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Command: CommandTruncate, RestartIdentity: true,
	})
	require.NoError(t, err)
	assert.Equal(t, `TRUNCATE TABLE "public"."users" RESTART IDENTITY`, db.rendered[1])

	_, err = e.Delete(ctx, DeleteRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
		Command: CommandDrop,
	})
	require.NoError(t, err)
	assert.Equal(t, `DROP TABLE IF EXISTS "public"."users"`, db.rendered[2])
}

func TestDeleteWithoutFiltersRejected(t *testing.T) {
	e := newTestEngine(&fakeDB{})
	_, err := e.Delete(context.Background(), DeleteRequest{
		Schema: "public", Table: "users", Mode: runner.Single,
	})
	var verr *pgerr.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestExecuteRawWithResolver(t *testing.T) {
	db := &fakeDB{}
	e := New(db, WithResolver(resolver.Resolver{}))

	result, err := e.ExecuteRaw(context.Background(), RawRequest{
		Mode: runner.Single,
		Records: []RawRecord{
			{Query: "SELECT * FROM audit WHERE actor = $1", RawParams: "alice"},
			{Query: "SELECT * FROM audit WHERE actor = $1 AND action = $2", Params: []any{"bob", "login"}},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 2)

	assert.Equal(t, []any{"alice"}, db.args[0])
	assert.Equal(t, []any{"bob", "login"}, db.args[1])
}

func TestExecuteDispatch(t *testing.T) {
	db := &fakeDB{}
	e := newTestEngine(db)

	ops := []Operation{
		SelectRequest{Schema: "public", Table: "users", Mode: runner.Single},
		InsertRequest{Schema: "public", Table: "users", Mode: runner.Single,
			Records: []map[string]any{{"email": "a@b.c"}}},
		DeleteRequest{Schema: "public", Table: "users", Mode: runner.Single, Command: CommandTruncate},
	}
	for _, op := range ops {
		_, err := e.Execute(context.Background(), op)
		require.NoError(t, err, op.OperationName())
	}
	assert.Len(t, db.rendered, 3)
}

func TestIndependentModeThroughEngine(t *testing.T) {
	boom := errors.New("unique violation")
	db := &fakeDB{failAt: map[int]error{1: boom}}
	e := newTestEngine(db)

	result, err := e.Insert(context.Background(), InsertRequest{
		Schema: "public", Table: "users", Mode: runner.Independent,
		Records: []map[string]any{
			{"email": "a@b.c"}, {"email": "a@b.c"}, {"email": "c@d.e"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Empty(t, result[1].Rows)
	assert.ErrorIs(t, result[1].Err, boom)
	assert.Len(t, result[2].Rows, 1)
}
