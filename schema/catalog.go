package schema

import (
	"context"
	"fmt"

	"github.com/stratumlabs/pgbatch/database"
	"github.com/stratumlabs/pgbatch/param"
)

// Catalog is the read-only introspection capability: column metadata
// for validation plus the listings a host UI needs to populate
// selection fields. All methods are safe to cache for a batch.
type Catalog interface {
	ListColumns(ctx context.Context, schemaName, table string) ([]ColumnInfo, error)
	ListEnumValues(ctx context.Context, typeName string) ([]string, error)
	ListSchemas(ctx context.Context) ([]string, error)
	ListTables(ctx context.Context, schemaName string) ([]string, error)
}

// QueryCatalog implements Catalog with information_schema and
// pg_catalog queries over an Executor.
type QueryCatalog struct {
	db database.Executor
}

func NewQueryCatalog(db database.Executor) *QueryCatalog {
	return &QueryCatalog{db: db}
}

const listColumnsSQL = `
SELECT column_name, data_type, udt_name, is_nullable, column_default IS NOT NULL AS has_default, is_generated
FROM information_schema.columns
WHERE table_schema = $1 AND table_name = $2
ORDER BY ordinal_position`

func (c *QueryCatalog) ListColumns(ctx context.Context, schemaName, table string) ([]ColumnInfo, error) {
	rows, err := c.db.Execute(ctx, rawQuery(listColumnsSQL, schemaName, table))
	if err != nil {
		return nil, fmt.Errorf("list columns for %s.%s: %w", schemaName, table, err)
	}
	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, ColumnInfo{
			Name:        asString(row["column_name"]),
			SQLType:     asString(row["data_type"]),
			UDTName:     asString(row["udt_name"]),
			Nullable:    asString(row["is_nullable"]) == "YES",
			HasDefault:  row["has_default"] == true,
			IsGenerated: asString(row["is_generated"]) == "ALWAYS",
		})
	}
	return columns, nil
}

const listEnumValuesSQL = `
SELECT e.enumlabel
FROM pg_type t
JOIN pg_enum e ON t.oid = e.enumtypid
WHERE t.typname = $1
ORDER BY e.enumsortorder`

func (c *QueryCatalog) ListEnumValues(ctx context.Context, typeName string) ([]string, error) {
	rows, err := c.db.Execute(ctx, rawQuery(listEnumValuesSQL, typeName))
	if err != nil {
		return nil, fmt.Errorf("list enum values for %s: %w", typeName, err)
	}
	return column(rows, "enumlabel"), nil
}

const listSchemasSQL = `
SELECT schema_name
FROM information_schema.schemata
WHERE schema_name NOT LIKE 'pg_%' AND schema_name <> 'information_schema'
ORDER BY schema_name`

func (c *QueryCatalog) ListSchemas(ctx context.Context) ([]string, error) {
	rows, err := c.db.Execute(ctx, rawQuery(listSchemasSQL))
	if err != nil {
		return nil, fmt.Errorf("list schemas: %w", err)
	}
	return column(rows, "schema_name"), nil
}

const listTablesSQL = `
SELECT table_name
FROM information_schema.tables
WHERE table_schema = $1
ORDER BY table_name`

func (c *QueryCatalog) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	rows, err := c.db.Execute(ctx, rawQuery(listTablesSQL, schemaName))
	if err != nil {
		return nil, fmt.Errorf("list tables in %s: %w", schemaName, err)
	}
	return column(rows, "table_name"), nil
}

func rawQuery(text string, values ...any) param.Statement {
	params := make([]param.Param, len(values))
	for i, v := range values {
		params[i] = param.Val(v)
	}
	return param.Statement{Text: text, Params: params, Raw: true}
}

func column(rows []database.Row, name string) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, asString(row[name]))
	}
	return out
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

var _ Catalog = (*QueryCatalog)(nil)
