// Package paradigm expands sampled adjective/noun pairs into full
// case/number paradigms and serializes them as evaluation records.
package paradigm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Inflector produces a single inflected form. For adjectives, gender is the
// gender the form must agree with; for nouns it selects the noun's paradigm.
// A missing form is reported as domain.ErrInflectionUnavailable (or any
// error not wrapping domain.ErrLookupUnavailable).
type Inflector interface {
	Inflect(ctx context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error)
}

// Stats counts expansion outcomes.
type Stats struct {
	Expanded int
	Dropped  int
}

// Expander turns sample pairs into records.
type Expander struct {
	log       *slog.Logger
	inflector Inflector
	workers   int
}

// NewExpander creates an Expander. workers bounds concurrent expansions;
// values below 1 mean sequential.
func NewExpander(log *slog.Logger, inflector Inflector, workers int) *Expander {
	if workers < 1 {
		workers = 1
	}
	return &Expander{
		log:       log.With("component", "paradigm"),
		inflector: inflector,
		workers:   workers,
	}
}

// Expand builds the record for one pair. Every cell is inflected for both
// words; the first failing cell fails the whole pair with an
// *domain.InflectionError. Lookup outages are returned as-is.
func (e *Expander) Expand(ctx context.Context, pair domain.SamplePair) (domain.Record, error) {
	tier, err := domain.TierForBucket(pair.Bucket)
	if err != nil {
		return domain.Record{}, err
	}
	if !pair.Gender.IsValid() {
		return domain.Record{}, &domain.InflectionError{
			Lemma: pair.Noun,
			Class: domain.WordClassNoun,
			Cell:  domain.Cells()[0],
			Err:   fmt.Errorf("gender %q unresolved: %w", pair.Gender, domain.ErrNotFound),
		}
	}

	var p domain.Paradigm
	for _, cell := range domain.Cells() {
		adj, err := e.inflect(ctx, pair.Adjective, domain.WordClassAdjective, cell, pair.Gender)
		if err != nil {
			return domain.Record{}, err
		}
		noun, err := e.inflect(ctx, pair.Noun, domain.WordClassNoun, cell, pair.Gender)
		if err != nil {
			return domain.Record{}, err
		}
		p.Set(cell, adj+" "+noun)
	}
	if !p.Complete() {
		return domain.Record{}, &domain.InflectionError{Lemma: pair.Noun, Class: domain.WordClassNoun, Cell: domain.Cells()[0]}
	}

	phrase := p.Singular.Nominative
	return domain.Record{
		Tier:       tier,
		Phrase:     phrase,
		Prompt:     Prompt(phrase),
		Completion: p,
	}, nil
}

func (e *Expander) inflect(ctx context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error) {
	form, err := e.inflector.Inflect(ctx, lemma, class, cell, gender)
	if err != nil {
		if errors.Is(err, domain.ErrLookupUnavailable) {
			return "", fmt.Errorf("inflect %q %s: %w", lemma, cell, err)
		}
		return "", &domain.InflectionError{Lemma: lemma, Class: class, Cell: cell, Err: err}
	}
	form = strings.TrimSpace(form)
	if form == "" {
		return "", &domain.InflectionError{Lemma: lemma, Class: class, Cell: cell}
	}
	return form, nil
}

// ExpandAll expands pairs concurrently and returns the records in pair
// order. Pairs that cannot be fully inflected are dropped and counted; a
// lookup outage aborts the whole run, and so does a batch in which every
// pair failed on a backend error rather than a missing form.
func (e *Expander) ExpandAll(ctx context.Context, pairs []domain.SamplePair) ([]domain.Record, Stats, error) {
	records := make([]domain.Record, len(pairs))
	ok := make([]bool, len(pairs))
	faults := make([]error, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, pair := range pairs {
		g.Go(func() error {
			rec, err := e.Expand(gctx, pair)
			switch {
			case err == nil:
				records[i], ok[i] = rec, true
				return nil
			case errors.Is(err, domain.ErrLookupUnavailable), gctx.Err() != nil:
				return err
			case errors.Is(err, domain.ErrInflectionUnavailable):
				if backendFault(err) {
					faults[i] = err
				}
				e.log.WarnContext(gctx, "pair dropped",
					slog.String("adjective", pair.Adjective),
					slog.String("noun", pair.Noun),
					slog.Int("bucket", pair.Bucket),
					slog.String("error", err.Error()),
				)
				return nil
			default:
				return err
			}
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Stats{}, fmt.Errorf("expand pairs: %w", err)
	}

	var (
		stats    Stats
		failed   int
		firstErr error
	)
	out := make([]domain.Record, 0, len(pairs))
	for i := range pairs {
		if !ok[i] {
			stats.Dropped++
			if faults[i] != nil {
				failed++
				if firstErr == nil {
					firstErr = faults[i]
				}
			}
			continue
		}
		stats.Expanded++
		out = append(out, records[i])
	}
	if len(pairs) > 0 && failed == len(pairs) {
		return nil, stats, fmt.Errorf("expand pairs: all %d pairs failed: %w: %w", failed, domain.ErrLookupUnavailable, firstErr)
	}
	return out, stats, nil
}

// backendFault reports whether a dropped pair failed on something other
// than a missing form or an unknown lemma.
func backendFault(err error) bool {
	var ie *domain.InflectionError
	if !errors.As(err, &ie) || ie.Err == nil {
		return false
	}
	return !errors.Is(ie.Err, domain.ErrInflectionUnavailable) && !errors.Is(ie.Err, domain.ErrNotFound)
}
