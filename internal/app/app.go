package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mideind/IcelandicEval/internal/config"
	"github.com/mideind/IcelandicEval/internal/domain"
	"github.com/mideind/IcelandicEval/internal/paradigm"
	"github.com/mideind/IcelandicEval/internal/pipeline"
	"github.com/mideind/IcelandicEval/internal/vocabulary"
)

// Modes accepted by Run.
const (
	ModeNouns      = pipeline.PhaseNouns
	ModeAdjectives = pipeline.PhaseAdjectives
	ModeGenerate   = pipeline.PhaseGenerate
	ModeAll        = "all"
	ModeMigrate    = "migrate"
	ModeImport     = "import"
	ModeExport     = "export"
)

// Modes returns every mode name.
func Modes() []string {
	return []string{ModeNouns, ModeAdjectives, ModeGenerate, ModeAll, ModeMigrate, ModeImport, ModeExport}
}

// Options are the command-line overrides of a run.
type Options struct {
	Mode       string
	ConfigPath string
	Count      *int    // nil keeps the configured count
	Seed       *uint64 // nil keeps the configured seed
}

// Run is the application entry point. It loads configuration, initializes
// the logger, applies the run timeout and dispatches on the mode.
func Run(ctx context.Context, opts Options) error {
	if !isMode(opts.Mode) {
		return domain.NewValidationError("mode", fmt.Sprintf("must be one of %s (got %q)", strings.Join(Modes(), ", "), opts.Mode))
	}

	cfg, err := config.LoadFrom(opts.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyOptions(cfg, opts); err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting inflection-eval",
		slog.String("version", BuildVersion()),
		slog.String("mode", opts.Mode),
		slog.String("log_level", cfg.Log.Level),
	)

	ctx, cancel := context.WithTimeout(ctx, cfg.RunTimeout)
	defer cancel()

	switch opts.Mode {
	case ModeMigrate:
		return runMigrate(ctx, cfg, logger)
	case ModeImport:
		return runImport(ctx, cfg, logger)
	case ModeExport:
		return runExport(ctx, cfg, logger)
	}
	return runPipeline(ctx, cfg, logger, opts.Mode)
}

func isMode(mode string) bool {
	for _, m := range Modes() {
		if m == mode {
			return true
		}
	}
	return false
}

// applyOptions copies the command-line overrides into cfg.
func applyOptions(cfg *config.Config, opts Options) error {
	if opts.Count != nil {
		if *opts.Count <= 0 {
			return domain.NewValidationError("count", fmt.Sprintf("must be positive (got %d)", *opts.Count))
		}
		cfg.Generate.Count = *opts.Count
	}
	if opts.Seed != nil {
		cfg.Generate.Seed = *opts.Seed
	}
	return nil
}

// pipelineConfig maps the application config onto the pipeline settings.
func pipelineConfig(cfg *config.Config) (pipeline.Config, error) {
	format, err := paradigm.ParseFormat(cfg.Generate.RecordFormat)
	if err != nil {
		return pipeline.Config{}, err
	}
	return pipeline.Config{
		NounsPath:         cfg.Data.Path(cfg.Data.NounsFile),
		AdjectivesPath:    cfg.Data.Path(cfg.Data.AdjectivesFile),
		OutputDir:         cfg.Data.OutputDir,
		NounFilter:        vocabulary.NewFilter(cfg.Buckets.AvoidNouns, nil),
		AdjectiveFilter:   vocabulary.NewFilter(cfg.Buckets.AvoidAdjectives, cfg.Buckets.SkipSuffixes),
		ScoreWorkers:      cfg.Buckets.Workers,
		FilterAmbiguous:   cfg.Buckets.FilterAmbiguous,
		MaxNounsPerBucket: cfg.Buckets.MaxNounsPerBucket,
		MaxAdjsPerBucket:  cfg.Buckets.MaxAdjsPerBucket,
		Count:             cfg.Generate.Count,
		Seed:              cfg.Generate.Seed,
		Format:            format,
		ExpandWorkers:     cfg.Generate.Workers,
		Version:           Version,
	}, nil
}

func runPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger, mode string) error {
	pcfg, err := pipelineConfig(cfg)
	if err != nil {
		return err
	}

	b, err := openBackends(ctx, cfg, logger, true)
	if err != nil {
		return err
	}
	defer b.Close()

	var phases []string
	if mode != ModeAll {
		phases = []string{mode}
	}

	p := pipeline.New(logger, b.Deps(), pcfg)
	runErr := p.Run(ctx, phases)

	path, err := p.WriteSummary()
	if err != nil {
		logger.Warn("write run summary", slog.String("error", err.Error()))
	} else {
		logger.Info("run summary written", slog.String("path", path), slog.Uint64("seed", p.Seed()))
	}

	if runErr != nil {
		return runErr
	}
	if p.HasErrors() {
		logger.Warn("pipeline completed with soft failures")
	}
	return nil
}
