package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mideind/IcelandicEval/internal/adapter/memory"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres/bin"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres/ngram"
	"github.com/mideind/IcelandicEval/internal/adapter/provider/icegrams"
	"github.com/mideind/IcelandicEval/internal/adapter/redis/freqcache"
	"github.com/mideind/IcelandicEval/internal/bucket"
	"github.com/mideind/IcelandicEval/internal/config"
	"github.com/mideind/IcelandicEval/internal/domain"
	"github.com/mideind/IcelandicEval/internal/paradigm"
	"github.com/mideind/IcelandicEval/internal/pipeline"
	"github.com/mideind/IcelandicEval/internal/sampler"
)

// morphology is what a BÍN backend offers the stages and the export.
type morphology interface {
	bucket.FormLister
	bucket.Analyzer
	sampler.GenderResolver
	Vocabulary(ctx context.Context, class domain.WordClass) ([]domain.VocabularyEntry, error)
}

// Compile-time interface assertions.
var (
	_ morphology             = (*memory.Lexicon)(nil)
	_ morphology             = (*bin.Repo)(nil)
	_ paradigm.Inflector     = (*memory.Lexicon)(nil)
	_ paradigm.Inflector     = (*bin.Inflector)(nil)
	_ bucket.FrequencyLookup = (*memory.FrequencyTable)(nil)
	_ bucket.FrequencyLookup = (*ngram.Repo)(nil)
	_ bucket.FrequencyLookup = (*icegrams.Provider)(nil)
	_ bucket.FrequencyLookup = (*freqcache.Cache)(nil)
)

// backends holds the lookups of one run and the connections behind them.
type backends struct {
	morph     morphology
	inflector paradigm.Inflector
	freq      bucket.FrequencyLookup

	pool *pgxpool.Pool
	rdb  *goredis.Client
}

// openBackends connects the configured morphology and, if withFrequency is
// set, the frequency lookup. Close releases whatever was opened, also after
// a failure.
func openBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger, withFrequency bool) (*backends, error) {
	b := &backends{}
	if err := b.open(ctx, cfg, logger, withFrequency); err != nil {
		b.Close()
		return nil, err
	}
	return b, nil
}

func (b *backends) open(ctx context.Context, cfg *config.Config, logger *slog.Logger, withFrequency bool) error {
	if cfg.NeedsDatabase() {
		pool, err := postgres.NewPool(ctx, cfg.Database, poolConcurrency(cfg), logger)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		b.pool = pool
	}

	switch cfg.Morphology.Backend {
	case config.BackendPostgres:
		repo := bin.New(b.pool)
		b.morph = repo
		b.inflector = bin.NewInflector(repo, cfg.Morphology.LoaderBatch, cfg.Morphology.LoaderWait)
	default:
		lex, err := memory.LoadLexicon(cfg.Data.Path(cfg.Data.LexiconFile))
		if err != nil {
			return err
		}
		logger.Info("lexicon loaded", slog.Int("lemmas", lex.Len()), slog.Int("forms", len(lex.Forms())))
		b.morph = lex
		b.inflector = lex
	}

	if !withFrequency {
		return nil
	}

	switch cfg.Frequency.Backend {
	case config.BackendPostgres:
		b.freq = ngram.New(b.pool)
	case config.BackendHTTP:
		b.freq = icegrams.NewProvider(cfg.Frequency.BaseURL, cfg.Frequency.Timeout, cfg.Frequency.RetryDelay, logger)
	default:
		table, err := memory.LoadFrequencyTable(cfg.Data.Path(cfg.Data.UnigramsFile))
		if err != nil {
			return err
		}
		logger.Info("unigrams loaded", slog.Int("forms", table.Len()))
		b.freq = table
	}

	if cfg.Cache.Enabled {
		rdb, err := freqcache.Connect(ctx, freqcache.Options{
			Addr:     cfg.Cache.Addr,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return err
		}
		b.rdb = rdb
		b.freq = freqcache.New(rdb, b.freq, cfg.Cache.TTL, cfg.Cache.Prefix, logger)
	}
	return nil
}

// Deps returns the lookups in the form the pipeline consumes.
func (b *backends) Deps() pipeline.Deps {
	return pipeline.Deps{
		Frequency: b.freq,
		Forms:     b.morph,
		Analyzer:  b.morph,
		Genders:   b.morph,
		Inflector: b.inflector,
	}
}

// Close releases the connections.
func (b *backends) Close() {
	if b.rdb != nil {
		_ = b.rdb.Close()
	}
	if b.pool != nil {
		b.pool.Close()
	}
}

// poolConcurrency sizes the database pool for the configured workers.
func poolConcurrency(cfg *config.Config) postgres.Concurrency {
	return postgres.Concurrency{
		ScoreWorkers:  cfg.Buckets.Workers,
		ExpandWorkers: cfg.Generate.Workers,
		LoaderBatch:   cfg.Morphology.LoaderBatch,
	}
}
