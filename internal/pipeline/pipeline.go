// Package pipeline runs the generator stages: noun buckets, adjective
// buckets and record generation. Stages hand their buckets to later stages
// in memory and also persist them, so each stage can run on its own.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/mideind/IcelandicEval/internal/bucket"
	"github.com/mideind/IcelandicEval/internal/domain"
	"github.com/mideind/IcelandicEval/internal/paradigm"
	"github.com/mideind/IcelandicEval/internal/sampler"
	"github.com/mideind/IcelandicEval/internal/vocabulary"
	"github.com/mideind/IcelandicEval/pkg/ctxutil"
)

// Phase names.
const (
	PhaseNouns      = "nouns"
	PhaseAdjectives = "adjectives"
	PhaseGenerate   = "generate"
)

// allPhases defines the canonical execution order.
var allPhases = []string{PhaseNouns, PhaseAdjectives, PhaseGenerate}

// Phases returns the phase names in execution order.
func Phases() []string { return append([]string(nil), allPhases...) }

// Random streams, one per phase, so a phase draws the same numbers for a
// seed whether or not earlier phases ran in the same process.
const (
	streamNouns uint64 = iota + 1
	streamAdjectives
	streamGenerate
)

// Deps are the lookups the stages consume. Forms and Analyzer may be nil.
type Deps struct {
	Frequency bucket.FrequencyLookup
	Forms     bucket.FormLister
	Analyzer  bucket.Analyzer
	Genders   sampler.GenderResolver
	Inflector paradigm.Inflector
}

// Config holds pipeline settings.
type Config struct {
	NounsPath       string
	AdjectivesPath  string
	OutputDir       string
	NounFilter      vocabulary.Filter
	AdjectiveFilter vocabulary.Filter

	ScoreWorkers      int
	FilterAmbiguous   bool
	MaxNounsPerBucket int
	MaxAdjsPerBucket  int

	Count         int
	Seed          uint64 // 0 = derived from the clock
	Format        paradigm.Format
	ExpandWorkers int

	Version string
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Written  int
	Skipped  int
	Errors   int // soft failures: unscoreable lemmas, dropped pairs
	Details  map[string]int
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates the generator phases.
type Pipeline struct {
	log     *slog.Logger
	deps    Deps
	cfg     Config
	store   *bucket.Store
	runID   uuid.UUID
	seed    uint64
	started time.Time
	results map[string]PhaseResult
	order   []string

	buckets map[domain.WordClass][]domain.Bucket
	genders map[string]domain.Gender
}

// New creates a Pipeline. A zero seed is replaced by one derived from the
// current time.
func New(log *slog.Logger, deps Deps, cfg Config) *Pipeline {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Pipeline{
		log:     log.With("component", "pipeline"),
		deps:    deps,
		cfg:     cfg,
		store:   bucket.NewStore(cfg.OutputDir),
		runID:   uuid.New(),
		seed:    seed,
		results: make(map[string]PhaseResult),
		buckets: make(map[domain.WordClass][]domain.Bucket),
	}
}

// Seed returns the seed in use.
func (p *Pipeline) Seed() uint64 { return p.seed }

// RunID returns the ID attached to this run's logs and summary.
func (p *Pipeline) RunID() uuid.UUID { return p.runID }

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase failed or recorded soft failures.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, in canonical order. The first failing phase stops the run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun, err := selectPhases(phases)
	if err != nil {
		return err
	}

	p.started = time.Now()
	ctx = ctxutil.WithRunID(ctx, p.runID)
	p.log.InfoContext(ctx, "pipeline started",
		slog.Any("phases", toRun),
		slog.Uint64("seed", p.seed),
		slog.Bool("seed_derived", p.cfg.Seed == 0),
	)

	for _, phase := range toRun {
		pctx := ctxutil.WithStage(ctx, phase)
		start := time.Now()
		p.log.InfoContext(pctx, "starting phase")

		var result PhaseResult
		switch phase {
		case PhaseNouns:
			result = p.runBuckets(pctx, domain.WordClassNoun)
		case PhaseAdjectives:
			result = p.runBuckets(pctx, domain.WordClassAdjective)
		case PhaseGenerate:
			result = p.runGenerate(pctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result
		p.order = append(p.order, phase)

		if result.Err != nil {
			p.log.ErrorContext(pctx, "phase failed",
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			return fmt.Errorf("phase %s: %w", phase, result.Err)
		}
		p.log.InfoContext(pctx, "phase completed",
			slog.Int("written", result.Written),
			slog.Int("skipped", result.Skipped),
			slog.Int("errors", result.Errors),
			slog.Duration("duration", result.Duration),
		)
	}

	p.log.InfoContext(ctx, "pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

func selectPhases(phases []string) ([]string, error) {
	if len(phases) == 0 {
		return allPhases, nil
	}
	filter := make(map[string]bool, len(phases))
	for _, ph := range phases {
		filter[ph] = true
	}
	var out []string
	for _, ph := range allPhases {
		if filter[ph] {
			out = append(out, ph)
			delete(filter, ph)
		}
	}
	for ph := range filter {
		return nil, domain.NewValidationError("phase", fmt.Sprintf("unknown phase %q", ph))
	}
	return out, nil
}

func (p *Pipeline) rng(stream uint64) *rand.Rand {
	return rand.New(rand.NewPCG(p.seed, stream))
}

// runBuckets reads the vocabulary of class, ranks it and writes its buckets.
func (p *Pipeline) runBuckets(ctx context.Context, class domain.WordClass) PhaseResult {
	path, filter, limit, stream := p.cfg.NounsPath, p.cfg.NounFilter, p.cfg.MaxNounsPerBucket, streamNouns
	if class == domain.WordClassAdjective {
		path, filter, limit, stream = p.cfg.AdjectivesPath, p.cfg.AdjectiveFilter, p.cfg.MaxAdjsPerBucket, streamAdjectives
	}

	entries, vstats, err := vocabulary.Load(path, class, filter)
	if err != nil {
		return PhaseResult{Err: err}
	}
	if class == domain.WordClassNoun {
		p.indexGenders(entries)
	}

	builder := bucket.NewBuilder(p.log, p.deps.Frequency, p.deps.Forms, p.deps.Analyzer, bucket.Config{
		Workers:         p.cfg.ScoreWorkers,
		FilterAmbiguous: p.cfg.FilterAmbiguous,
		MaxPerBucket:    limit,
		Rand:            p.rng(stream),
	})
	res, err := builder.Build(ctx, class, entries)
	if err != nil {
		return PhaseResult{Err: err}
	}
	if err := p.store.WriteAll(res.Buckets); err != nil {
		return PhaseResult{Err: err}
	}
	p.buckets[class] = res.Buckets

	details := map[string]int{
		"rows":        vstats.Rows,
		"rejected":    vstats.Rejected,
		"proper_noun": vstats.ProperNoun,
		"filtered":    vstats.Filtered,
		"duplicates":  res.Stats.Duplicates,
		"wrong_class": res.Stats.WrongClass,
		"ambiguous":   res.Stats.Ambiguous,
		"unscoreable": res.Stats.Unscoreable,
		"failed":      res.Stats.Failed,
		"capped":      res.Stats.Capped,
	}
	for _, b := range res.Buckets {
		details[fmt.Sprintf("bucket_%d", b.Index)] = b.Len()
	}

	skipped := vstats.Rejected + vstats.ProperNoun + vstats.Filtered +
		res.Stats.Duplicates + res.Stats.WrongClass + res.Stats.Ambiguous + res.Stats.Capped
	return PhaseResult{
		Written: res.Stats.Bucketed,
		Skipped: skipped,
		Errors:  res.Stats.Unscoreable,
		Details: details,
	}
}

// runGenerate samples pairs from the buckets, expands them and writes the
// tier files.
func (p *Pipeline) runGenerate(ctx context.Context) PhaseResult {
	nouns, err := p.loadBuckets(domain.WordClassNoun)
	if err != nil {
		return PhaseResult{Err: err}
	}
	adjectives, err := p.loadBuckets(domain.WordClassAdjective)
	if err != nil {
		return PhaseResult{Err: err}
	}
	if p.genders == nil {
		p.loadGenderIndex(ctx)
	}

	s := sampler.New(p.log, chainGenders{index: p.genders, next: p.deps.Genders})
	sampled, err := s.Sample(ctx, p.rng(streamGenerate), p.cfg.Count, nouns, adjectives)
	if err != nil {
		return PhaseResult{Err: err}
	}
	var pairs []domain.SamplePair
	for _, bucketPairs := range sampled {
		pairs = append(pairs, bucketPairs...)
	}

	exp := paradigm.NewExpander(p.log, p.deps.Inflector, p.cfg.ExpandWorkers)
	records, stats, err := exp.ExpandAll(ctx, pairs)
	if err != nil {
		return PhaseResult{Err: err}
	}

	counts, err := paradigm.NewWriter(p.cfg.OutputDir, p.cfg.Format).WriteAll(records)
	if err != nil {
		return PhaseResult{Err: err}
	}

	details := map[string]int{"sampled": len(pairs), "dropped": stats.Dropped}
	for tier, n := range counts {
		details[tier.String()] = n
	}
	return PhaseResult{
		Written: len(records),
		Errors:  stats.Dropped,
		Details: details,
	}
}

func (p *Pipeline) loadBuckets(class domain.WordClass) ([]domain.Bucket, error) {
	if b, ok := p.buckets[class]; ok {
		return b, nil
	}
	b, err := p.store.ReadAll(class)
	if err != nil {
		return nil, err
	}
	p.buckets[class] = b
	return b, nil
}

func (p *Pipeline) indexGenders(entries []domain.VocabularyEntry) {
	p.genders = make(map[string]domain.Gender, len(entries))
	for _, e := range entries {
		if g, ok := e.Tag.Gender(); ok {
			if _, seen := p.genders[e.Lemma]; !seen {
				p.genders[e.Lemma] = g
			}
		}
	}
}

// loadGenderIndex reads noun genders from the noun vocabulary when the noun
// phase did not run. Without the file, genders come from the morphology.
func (p *Pipeline) loadGenderIndex(ctx context.Context) {
	entries, _, err := vocabulary.Load(p.cfg.NounsPath, domain.WordClassNoun, p.cfg.NounFilter)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			p.log.WarnContext(ctx, "noun vocabulary unreadable, using morphology genders",
				slog.String("error", err.Error()))
		}
		p.genders = map[string]domain.Gender{}
		return
	}
	p.indexGenders(entries)
}

// chainGenders answers from the vocabulary index first.
type chainGenders struct {
	index map[string]domain.Gender
	next  sampler.GenderResolver
}

func (c chainGenders) Gender(ctx context.Context, noun string) (domain.Gender, error) {
	if g, ok := c.index[noun]; ok {
		return g, nil
	}
	if c.next == nil {
		return "", fmt.Errorf("noun %q: %w", noun, domain.ErrNotFound)
	}
	return c.next.Gender(ctx, noun)
}
