// Package dbpool configures the PostgreSQL connection pool shared by the
// stores, the migration runner, and the LISTEN/NOTIFY bridge.
package dbpool

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing. One connection beyond the query budget is reserved for the
// notify bridge, which parks on WaitForNotification for long stretches.
const (
	queryConns   = 20
	bridgeConns  = 1
	warmConns    = 2
	connLifetime = 30 * time.Minute
	connIdle     = 5 * time.Minute
	healthEvery  = 30 * time.Second

	// Server-side guard against runaway queries, in milliseconds.
	statementTimeoutMS = "30000"
)

// Pool is the pgx pool with lineage-specific sizing applied. It embeds
// pgxpool.Pool, so the full query API is available on it directly.
type Pool struct {
	*pgxpool.Pool
}

// NewPool opens a pool against databaseURL and verifies connectivity before
// returning.
func NewPool(ctx context.Context, databaseURL string) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database URL: %w", err)
	}

	cfg.ConnConfig.RuntimeParams["statement_timeout"] = statementTimeoutMS
	cfg.MaxConns = queryConns + bridgeConns
	cfg.MinConns = warmConns
	cfg.MaxConnLifetime = connLifetime
	cfg.MaxConnIdleTime = connIdle
	cfg.HealthCheckPeriod = healthEvery

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial round-trip query. Unlike Ping, it exercises the
// full query path the stores use.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var one int
	if err := p.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("health check query: %w", err)
	}

	return nil
}

// ConnString returns the connection string the pool was created from.
func (p *Pool) ConnString() string {
	return p.Config().ConnString()
}
