package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stratumlabs/pgbatch/database"
	"github.com/stratumlabs/pgbatch/dialect"
)

// Connection is one open pool with its dialect. The id tags log lines
// and stats so concurrent connections stay distinguishable.
type Connection struct {
	id      string
	cfg     Config
	pool    *pgxpool.Pool
	dialect dialect.Dialect
}

// ConnectionStats is a pool snapshot.
type ConnectionStats struct {
	ID              string
	OpenConnections int
	InUse           int
	Idle            int
}

// Connect opens a pool for cfg, retrying with exponential backoff when
// cfg.Retry is set. Failures come back classified as ConnectionError.
func Connect(ctx context.Context, cfg Config) (*Connection, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout.Std())
		defer cancel()
	}

	var pool *pgxpool.Pool
	var err error
	if cfg.Retry != nil {
		pool, err = retryConnect(ctx, *cfg.Retry, func(ctx context.Context) (*pgxpool.Pool, error) {
			return open(ctx, cfg)
		})
	} else {
		pool, err = open(ctx, cfg)
	}
	if err != nil {
		return nil, ClassifyError(err)
	}

	return &Connection{
		id:      uuid.NewString(),
		cfg:     cfg,
		pool:    pool,
		dialect: dialect.NewPostgresDialect(),
	}, nil
}

func open(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = int32(cfg.Pool.MaxOpen)
	poolCfg.MinConns = int32(cfg.Pool.MaxIdle)
	poolCfg.MaxConnLifetime = cfg.Pool.MaxLifetime.Std()
	poolCfg.MaxConnIdleTime = cfg.Pool.MaxIdleTime.Std()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func retryConnect(ctx context.Context, opts RetryConfig, connect func(context.Context) (*pgxpool.Pool, error)) (*pgxpool.Pool, error) {
	delay := opts.BaseDelay.Std()
	if delay == 0 {
		delay = time.Second
	}

	var err error
	for i := 0; i < opts.MaxRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = connect(ctx)
		if err == nil {
			return pool, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
			delay *= 2
			if maxDelay := opts.MaxDelay.Std(); maxDelay > 0 && delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return nil, err
}

// ID returns the connection's identity tag.
func (c *Connection) ID() string { return c.id }

// Database returns the execution capability backed by this pool.
func (c *Connection) Database() database.Database {
	return database.NewPgxDatabase(c.pool, c.dialect)
}

// Dialect returns the connection's dialect.
func (c *Connection) Dialect() dialect.Dialect { return c.dialect }

// Health pings the server.
func (c *Connection) Health(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// Stats returns a pool snapshot.
func (c *Connection) Stats() ConnectionStats {
	s := c.pool.Stat()
	return ConnectionStats{
		ID:              c.id,
		OpenConnections: int(s.TotalConns()),
		InUse:           int(s.AcquiredConns()),
		Idle:            int(s.IdleConns()),
	}
}

// Close releases the pool.
func (c *Connection) Close() {
	c.pool.Close()
}
