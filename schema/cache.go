package schema

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CachedCatalog wraps a Catalog with LRU caches keyed by
// schema-qualified name. Introspection results are stable for the
// lifetime of a batch, so repeated lookups for the same table hit the
// cache instead of the server.
type CachedCatalog struct {
	inner   Catalog
	columns *lru.Cache[string, []ColumnInfo]
	names   *lru.Cache[string, []string]
}

// NewCachedCatalog wraps inner with caches of the given size per kind.
func NewCachedCatalog(inner Catalog, size int) (*CachedCatalog, error) {
	columns, err := lru.New[string, []ColumnInfo](size)
	if err != nil {
		return nil, err
	}
	names, err := lru.New[string, []string](size)
	if err != nil {
		return nil, err
	}
	return &CachedCatalog{inner: inner, columns: columns, names: names}, nil
}

func (c *CachedCatalog) ListColumns(ctx context.Context, schemaName, table string) ([]ColumnInfo, error) {
	key := schemaName + "." + table
	if cols, ok := c.columns.Get(key); ok {
		return cols, nil
	}
	cols, err := c.inner.ListColumns(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	c.columns.Add(key, cols)
	return cols, nil
}

func (c *CachedCatalog) ListEnumValues(ctx context.Context, typeName string) ([]string, error) {
	return c.cachedNames(ctx, "enum:"+typeName, func() ([]string, error) {
		return c.inner.ListEnumValues(ctx, typeName)
	})
}

func (c *CachedCatalog) ListSchemas(ctx context.Context) ([]string, error) {
	return c.cachedNames(ctx, "schemas", func() ([]string, error) {
		return c.inner.ListSchemas(ctx)
	})
}

func (c *CachedCatalog) ListTables(ctx context.Context, schemaName string) ([]string, error) {
	return c.cachedNames(ctx, "tables:"+schemaName, func() ([]string, error) {
		return c.inner.ListTables(ctx, schemaName)
	})
}

// Invalidate drops every cached entry, for callers that know the
// schema changed underneath them.
func (c *CachedCatalog) Invalidate() {
	c.columns.Purge()
	c.names.Purge()
}

func (c *CachedCatalog) cachedNames(_ context.Context, key string, fetch func() ([]string, error)) ([]string, error) {
	if names, ok := c.names.Get(key); ok {
		return names, nil
	}
	names, err := fetch()
	if err != nil {
		return nil, err
	}
	c.names.Add(key, names)
	return names, nil
}

var _ Catalog = (*CachedCatalog)(nil)
