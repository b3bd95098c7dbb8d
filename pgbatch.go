// Package pgbatch turns structured CRUD descriptions into safely
// parameterized PostgreSQL statements and executes them in batches
// under single, transaction or independent semantics.
package pgbatch

import (
	"context"

	"github.com/stratumlabs/pgbatch/connector"
	"github.com/stratumlabs/pgbatch/engine"
	"github.com/stratumlabs/pgbatch/schema"
)

type Config = connector.Config

// Connect opens a connection for cfg and returns an engine wired with
// a cached catalog for schema validation. Close the returned
// connection when done.
func Connect(ctx context.Context, cfg Config, opts ...engine.Option) (*engine.Engine, *connector.Connection, error) {
	conn, err := connector.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	db := conn.Database()
	catalog, err := schema.NewCachedCatalog(schema.NewQueryCatalog(db), 128)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	opts = append([]engine.Option{engine.WithCatalog(catalog)}, opts...)
	return engine.New(db, opts...), conn, nil
}
