// Package sampler draws adjective/noun pairs from same-index frequency buckets.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// GenderResolver returns the grammatical gender of a noun lemma.
type GenderResolver interface {
	Gender(ctx context.Context, noun string) (domain.Gender, error)
}

// Sampler pairs nouns and adjectives bucket by bucket.
type Sampler struct {
	log     *slog.Logger
	genders GenderResolver
}

// New creates a Sampler.
func New(log *slog.Logger, genders GenderResolver) *Sampler {
	return &Sampler{
		log:     log.With("component", "sampler"),
		genders: genders,
	}
}

// Sample draws n pairs from every bucket index. nouns and adjectives are
// indexed by bucket. Bucket sizes are checked before anything is drawn; all
// undersized buckets are reported together.
//
// Randomness comes only from rng: the same seed, n and bucket contents
// always give the same pairs.
func (s *Sampler) Sample(ctx context.Context, rng *rand.Rand, n int, nouns, adjectives []domain.Bucket) ([][]domain.SamplePair, error) {
	if n <= 0 {
		return nil, domain.NewValidationError("count", fmt.Sprintf("must be positive (got %d)", n))
	}
	if len(nouns) != len(adjectives) {
		return nil, domain.NewValidationError("buckets",
			fmt.Sprintf("%d noun buckets vs %d adjective buckets", len(nouns), len(adjectives)))
	}

	var sizeErrs []error
	for i := range nouns {
		for _, b := range []domain.Bucket{nouns[i], adjectives[i]} {
			if b.Len() < n {
				sizeErrs = append(sizeErrs, &domain.BucketSizeError{Class: b.Class, Bucket: i, Have: b.Len(), Want: n})
			}
		}
	}
	if len(sizeErrs) > 0 {
		return nil, fmt.Errorf("sample: %w", errors.Join(sizeErrs...))
	}

	out := make([][]domain.SamplePair, len(nouns))
	for i := range nouns {
		pairs, err := s.sampleBucket(ctx, rng, n, i, nouns[i], adjectives[i])
		if err != nil {
			return nil, err
		}
		out[i] = pairs
	}
	return out, nil
}

func (s *Sampler) sampleBucket(ctx context.Context, rng *rand.Rand, n, index int, nouns, adjectives domain.Bucket) ([]domain.SamplePair, error) {
	drawnNouns, err := Draw(rng, nouns, n)
	if err != nil {
		return nil, err
	}
	drawnAdjs, err := Draw(rng, adjectives, n)
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.SamplePair, n)
	for j := range n {
		gender, err := s.genders.Gender(ctx, drawnNouns[j])
		if err != nil {
			if errors.Is(err, domain.ErrLookupUnavailable) {
				return nil, fmt.Errorf("resolve gender of %q: %w", drawnNouns[j], err)
			}
			// Left unresolved: the expander drops the pair.
			s.log.WarnContext(ctx, "noun gender unresolved",
				slog.String("noun", drawnNouns[j]),
				slog.String("error", err.Error()),
			)
			gender = ""
		}
		pairs[j] = domain.SamplePair{
			Adjective: drawnAdjs[j],
			Noun:      drawnNouns[j],
			Gender:    gender,
			Bucket:    index,
		}
	}

	s.log.DebugContext(ctx, "bucket sampled", slog.Int("bucket", index), slog.Int("pairs", len(pairs)))
	return pairs, nil
}

// Draw picks n distinct lemmas from the bucket uniformly at random without
// replacement (partial Fisher-Yates over a copy). The bucket is not modified.
func Draw(rng *rand.Rand, b domain.Bucket, n int) ([]string, error) {
	if n > b.Len() {
		return nil, &domain.BucketSizeError{Class: b.Class, Bucket: b.Index, Have: b.Len(), Want: n}
	}
	pool := make([]string, b.Len())
	copy(pool, b.Lemmas)
	for i := range n {
		j := i + rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n], nil
}
