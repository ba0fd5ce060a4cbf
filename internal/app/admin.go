package app

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/mideind/IcelandicEval/internal/adapter/memory"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres/bin"
	"github.com/mideind/IcelandicEval/internal/adapter/postgres/ngram"
	"github.com/mideind/IcelandicEval/internal/config"
	"github.com/mideind/IcelandicEval/internal/domain"
	"github.com/mideind/IcelandicEval/internal/vocabulary"
)

func requireDSN(cfg *config.Config, mode string) error {
	if cfg.Database.DSN == "" {
		return domain.NewValidationError("database.dsn", fmt.Sprintf("required for mode %s", mode))
	}
	return nil
}

// runMigrate applies the schema migrations.
func runMigrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := requireDSN(cfg, ModeMigrate); err != nil {
		return err
	}
	n, err := postgres.Migrate(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logger.Info("migrations applied", slog.Int("count", n))
	return nil
}

// runImport loads the BÍN export and the unigram file into PostgreSQL,
// replacing both tables in one transaction.
func runImport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := requireDSN(cfg, ModeImport); err != nil {
		return err
	}
	if err := runMigrate(ctx, cfg, logger); err != nil {
		return err
	}

	lex, err := memory.LoadLexicon(cfg.Data.Path(cfg.Data.LexiconFile))
	if err != nil {
		return err
	}
	table, err := memory.LoadFrequencyTable(cfg.Data.Path(cfg.Data.UnigramsFile))
	if err != nil {
		return err
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, poolConcurrency(cfg), logger)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	unigrams := make([]ngram.Unigram, 0, table.Len())
	for word, count := range table.Counts() {
		unigrams = append(unigrams, ngram.Unigram{Word: word, Count: count})
	}
	slices.SortFunc(unigrams, func(a, b ngram.Unigram) int { return cmp.Compare(a.Word, b.Word) })

	start := time.Now()
	batch := cfg.Database.ImportBatchSize
	var forms, words int
	err = postgres.NewTxManager(pool, logger).RunExclusive(ctx, postgres.ImportLockKey, func(ctx context.Context) error {
		var err error
		if forms, err = bin.New(pool).ReplaceAll(ctx, lex.Forms(), batch); err != nil {
			return fmt.Errorf("import bin forms: %w", err)
		}
		if words, err = ngram.New(pool).ReplaceAll(ctx, unigrams, batch); err != nil {
			return fmt.Errorf("import unigrams: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("import completed",
		slog.Int("bin_forms", forms),
		slog.Int("unigrams", words),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// runExport writes the noun and adjective vocabulary files from the
// configured morphology backend.
func runExport(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	b, err := openBackends(ctx, cfg, logger, false)
	if err != nil {
		return err
	}
	defer b.Close()

	for _, target := range []struct {
		class domain.WordClass
		file  string
	}{
		{domain.WordClassNoun, cfg.Data.NounsFile},
		{domain.WordClassAdjective, cfg.Data.AdjectivesFile},
	} {
		entries, err := b.morph.Vocabulary(ctx, target.class)
		if err != nil {
			return fmt.Errorf("export %s: %w", target.class, err)
		}
		path := cfg.Data.Path(target.file)
		n, err := vocabulary.Save(path, target.class, entries)
		if err != nil {
			return fmt.Errorf("export %s: %w", target.class, err)
		}
		logger.Info("vocabulary exported",
			slog.String("class", target.class.String()),
			slog.String("path", path),
			slog.Int("rows", n),
		)
	}
	return nil
}
