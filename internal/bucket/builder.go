// Package bucket ranks vocabulary by corpus word-form frequency and
// partitions it into difficulty buckets.
package bucket

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// FrequencyLookup scores a single word form. found is false when the form
// never occurs in the corpus. An error wrapping domain.ErrLookupUnavailable
// aborts the build; any other error only skips the lemma being scored,
// unless every lemma of the build fails that way.
type FrequencyLookup interface {
	Score(ctx context.Context, wordForm string) (count int64, found bool, err error)
}

// FormLister lists the distinct surface forms of a lemma.
type FormLister interface {
	WordForms(ctx context.Context, lemma string, tag domain.Tag) ([]string, error)
}

// Analyzer reports which lemmas a surface form or lemma text belongs to.
// It powers the ambiguity filter.
type Analyzer interface {
	Analyze(ctx context.Context, wordForm string) ([]domain.VocabularyEntry, error)
	LemmaTags(ctx context.Context, lemma string) ([]domain.Tag, error)
}

// Config holds builder settings.
type Config struct {
	// Workers bounds the number of lemmas scored concurrently.
	Workers int
	// FilterAmbiguous skips lemmas sharing a surface form with another lemma.
	// Only effective with an Analyzer.
	FilterAmbiguous bool
	// MaxPerBucket caps the size of each bucket (0 = unlimited). The kept
	// subset is drawn with Rand and written in frequency order.
	MaxPerBucket int
	Rand         *rand.Rand
}

// Stats counts how the vocabulary was consumed.
type Stats struct {
	Input       int
	Duplicates  int
	WrongClass  int
	Ambiguous   int
	Unscoreable int
	Failed      int // unscoreable because a lookup errored
	Capped      int
	Bucketed    int
}

// Result is the outcome of a bucket build.
type Result struct {
	Buckets []domain.Bucket
	Stats   Stats
}

// Builder builds frequency buckets for one word class at a time.
type Builder struct {
	log      *slog.Logger
	freq     FrequencyLookup
	forms    FormLister
	analyzer Analyzer
	cfg      Config
}

// NewBuilder creates a Builder. forms and analyzer may be nil: without a
// FormLister a lemma is scored by its own text only, without an Analyzer the
// ambiguity filter is off.
func NewBuilder(log *slog.Logger, freq FrequencyLookup, forms FormLister, analyzer Analyzer, cfg Config) *Builder {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &Builder{
		log:      log.With("component", "bucket"),
		freq:     freq,
		forms:    forms,
		analyzer: analyzer,
		cfg:      cfg,
	}
}

type outcome int

const (
	outcomeScored outcome = iota
	outcomeAmbiguous
	outcomeUnscoreable
)

type scored struct {
	lemma   string
	score   int64
	outcome outcome
	err     error
}

// Build deduplicates entries, scores every lemma of the requested class and
// partitions them into domain.BucketCount buckets, lowest frequency first.
func (b *Builder) Build(ctx context.Context, class domain.WordClass, entries []domain.VocabularyEntry) (Result, error) {
	var stats Stats
	stats.Input = len(entries)

	unique := dedupe(entries)
	stats.Duplicates = len(entries) - len(unique)

	candidates := make([]domain.VocabularyEntry, 0, len(unique))
	for _, e := range unique {
		if e.Tag.Class() != class {
			stats.WrongClass++
			continue
		}
		candidates = append(candidates, e)
	}

	results := make([]scored, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.cfg.Workers)
	for i, e := range candidates {
		g.Go(func() error {
			s, err := b.scoreEntry(gctx, e)
			if err != nil {
				return err
			}
			results[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{Stats: stats}, fmt.Errorf("build %s buckets: %w", class, err)
	}

	var firstErr error
	ranked := make([]domain.ScoredLemma, 0, len(results))
	for _, s := range results {
		switch s.outcome {
		case outcomeAmbiguous:
			stats.Ambiguous++
		case outcomeUnscoreable:
			stats.Unscoreable++
			if s.err != nil {
				stats.Failed++
				if firstErr == nil {
					firstErr = s.err
				}
			}
		default:
			ranked = append(ranked, domain.ScoredLemma{Lemma: s.lemma, Score: s.score})
		}
	}
	if len(candidates) > 0 && stats.Failed == len(candidates) {
		return Result{Stats: stats}, fmt.Errorf("build %s buckets: all %d lemmas failed: %w: %w",
			class, stats.Failed, domain.ErrLookupUnavailable, firstErr)
	}

	SortByScore(ranked)
	parts := Partition(ranked, domain.BucketCount)

	buckets := make([]domain.Bucket, len(parts))
	for i, part := range parts {
		if b.cfg.MaxPerBucket > 0 && len(part) > b.cfg.MaxPerBucket {
			stats.Capped += len(part) - b.cfg.MaxPerBucket
			part = capRanked(part, b.cfg.MaxPerBucket, b.cfg.Rand)
		}
		lemmas := make([]string, len(part))
		for j, s := range part {
			lemmas[j] = s.Lemma
		}
		buckets[i] = domain.Bucket{Class: class, Index: i, Lemmas: lemmas}
		stats.Bucketed += len(lemmas)
	}

	b.log.InfoContext(ctx, "buckets built",
		slog.String("class", class.String()),
		slog.Int("input", stats.Input),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("ambiguous", stats.Ambiguous),
		slog.Int("unscoreable", stats.Unscoreable),
		slog.Int("bucketed", stats.Bucketed),
	)

	return Result{Buckets: buckets, Stats: stats}, nil
}

// scoreEntry sums the corpus frequency of every surface form of the lemma.
// Only lookup-unavailable errors are returned; other failures mark the
// lemma as unscoreable.
func (b *Builder) scoreEntry(ctx context.Context, e domain.VocabularyEntry) (scored, error) {
	s := scored{lemma: e.Lemma}

	if b.cfg.FilterAmbiguous && b.analyzer != nil {
		ambiguous, err := b.lemmaAmbiguous(ctx, e)
		if err != nil {
			return b.soft(ctx, s, err)
		}
		if ambiguous {
			s.outcome = outcomeAmbiguous
			return s, nil
		}
	}

	forms := []string{e.Lemma}
	if b.forms != nil {
		listed, err := b.forms.WordForms(ctx, e.Lemma, e.Tag)
		if err != nil {
			return b.soft(ctx, s, err)
		}
		if len(listed) > 0 {
			forms = distinct(listed)
		}
	}

	if b.cfg.FilterAmbiguous && b.analyzer != nil {
		for _, form := range forms {
			owners, err := b.analyzer.Analyze(ctx, form)
			if err != nil {
				return b.soft(ctx, s, err)
			}
			for _, o := range owners {
				if o.Lemma != e.Lemma || o.Tag != e.Tag {
					s.outcome = outcomeAmbiguous
					return s, nil
				}
			}
		}
	}

	var total int64
	for _, form := range forms {
		count, found, err := b.freq.Score(ctx, form)
		if err != nil {
			return b.soft(ctx, s, err)
		}
		if found && count > 0 {
			total += count
		}
	}
	if total == 0 {
		s.outcome = outcomeUnscoreable
		return s, nil
	}

	s.score = total
	return s, nil
}

// lemmaAmbiguous reports whether the lemma is listed under more than one
// tag, or under a tag other than the vocabulary's.
func (b *Builder) lemmaAmbiguous(ctx context.Context, e domain.VocabularyEntry) (bool, error) {
	tags, err := b.analyzer.LemmaTags(ctx, e.Lemma)
	if err != nil {
		return false, err
	}
	return len(tags) != 1 || tags[0] != e.Tag, nil
}

// soft turns a per-lemma failure into an unscoreable outcome, passing
// through errors that must abort the stage. Failures other than not-found
// are kept on the result so Build can tell a broken backend from bad data.
func (b *Builder) soft(ctx context.Context, s scored, err error) (scored, error) {
	if errors.Is(err, domain.ErrLookupUnavailable) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return s, err
	}
	err = fmt.Errorf("%w: %w", domain.ErrLemmaUnscoreable, err)
	b.log.WarnContext(ctx, "lemma skipped",
		slog.String("lemma", s.lemma),
		slog.String("error", err.Error()),
	)
	s.outcome = outcomeUnscoreable
	if !errors.Is(err, domain.ErrNotFound) {
		s.err = err
	}
	return s, nil
}

// dedupe keeps the first occurrence of each lemma.
func dedupe(entries []domain.VocabularyEntry) []domain.VocabularyEntry {
	seen := make(map[string]bool, len(entries))
	out := make([]domain.VocabularyEntry, 0, len(entries))
	for _, e := range entries {
		if seen[e.Lemma] {
			continue
		}
		seen[e.Lemma] = true
		out = append(out, e)
	}
	return out
}

func distinct(forms []string) []string {
	seen := make(map[string]bool, len(forms))
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// SortByScore orders lemmas by ascending score, then alphabetically for stability.
func SortByScore(lemmas []domain.ScoredLemma) {
	slices.SortStableFunc(lemmas, func(a, b domain.ScoredLemma) int {
		if c := cmp.Compare(a.Score, b.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.Lemma, b.Lemma)
	})
}

// Partition splits a ranked sequence into k contiguous ranges of
// ceil(n/k) elements; the last range takes whatever remains, so trailing
// ranges may be short or empty. Always returns k ranges.
func Partition[T any](ranked []T, k int) [][]T {
	if k <= 0 {
		return nil
	}
	parts := make([][]T, k)
	size := (len(ranked) + k - 1) / k
	for i := range k {
		start := min(i*size, len(ranked))
		end := min(start+size, len(ranked))
		if i == k-1 {
			end = len(ranked)
		}
		parts[i] = ranked[start:end]
	}
	return parts
}

// capRanked keeps a random subset of limit elements, preserving rank order.
func capRanked(part []domain.ScoredLemma, limit int, rng *rand.Rand) []domain.ScoredLemma {
	var perm []int
	if rng != nil {
		perm = rng.Perm(len(part))[:limit]
	} else {
		perm = rand.Perm(len(part))[:limit]
	}
	slices.Sort(perm)
	out := make([]domain.ScoredLemma, len(perm))
	for i, idx := range perm {
		out[i] = part[idx]
	}
	return out
}
