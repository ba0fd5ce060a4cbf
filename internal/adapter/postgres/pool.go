package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mideind/IcelandicEval/internal/config"
	"github.com/mideind/IcelandicEval/internal/domain"
)

// applicationName tags the connections in pg_stat_activity.
const applicationName = "inflection-eval"

// Concurrency describes how many queries the pipeline can have in flight.
type Concurrency struct {
	// ScoreWorkers lemmas are scored at once, each holding one connection
	// while it lists forms and looks up counts.
	ScoreWorkers int
	// ExpandWorkers inflect at once; the dataloader folds their lookups into
	// batches of LoaderBatch lemmas, one query per batch.
	ExpandWorkers int
	LoaderBatch   int
}

// Conns returns the connections the pipeline can use at once, plus one for
// statements outside the workers (migrations, imports, export scans).
func (c Concurrency) Conns() int32 {
	expand := c.ExpandWorkers
	if c.LoaderBatch > 0 {
		expand = (c.ExpandWorkers + c.LoaderBatch - 1) / c.LoaderBatch
	}
	return int32(max(c.ScoreWorkers, expand, 1) + 1)
}

// NewPool creates a connection pool for the BÍN and unigram tables. The
// pool is sized to the pipeline's concurrency and capped by
// DatabaseConfig.MaxConns; the database is pinged before returning.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, conc Concurrency, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = conc.Conns()
	if cfg.MaxConns > 0 && cfg.MaxConns < poolCfg.MaxConns {
		poolCfg.MaxConns = cfg.MaxConns
	}
	poolCfg.MinConns = min(cfg.MinConns, poolCfg.MaxConns)
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w: %w", domain.ErrLookupUnavailable, err)
	}

	logger.With("adapter", "postgres").InfoContext(ctx, "database pool ready",
		slog.Int("max_conns", int(poolCfg.MaxConns)),
		slog.Int("min_conns", int(poolCfg.MinConns)),
	)
	return pool, nil
}
