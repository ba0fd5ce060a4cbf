package bin

import (
	"context"
	"fmt"
	"time"

	"github.com/graph-gophers/dataloader/v7"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// formRepo is the query the inflector batches.
type formRepo interface {
	FormsByLemmas(ctx context.Context, lemmas []string) ([]domain.MorphForm, error)
}

// Inflector answers inflection lookups from whole-lemma paradigms.
// Concurrent lookups for different lemmas are batched into one query per
// wait window, and each lemma's rows are loaded only once.
type Inflector struct {
	loader *dataloader.Loader[string, []domain.MorphForm]
}

// NewInflector creates an Inflector over repo. batch caps the lemmas per
// query; wait is how long the loader collects keys before querying.
func NewInflector(repo formRepo, batch int, wait time.Duration) *Inflector {
	return &Inflector{
		loader: dataloader.NewBatchedLoader(
			newFormsBatchFn(repo),
			dataloader.WithWait[string, []domain.MorphForm](wait),
			dataloader.WithBatchCapacity[string, []domain.MorphForm](batch),
		),
	}
}

// Inflect returns the form of lemma for cell.
func (i *Inflector) Inflect(ctx context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error) {
	rows, err := i.loader.Load(ctx, lemma)()
	if err != nil {
		return "", err
	}
	form, ok := domain.SelectForm(rows, lemma, class, cell, gender)
	if !ok {
		return "", fmt.Errorf("%s %q %s: %w", class, lemma, domain.InflectionMark(class, cell, gender), domain.ErrInflectionUnavailable)
	}
	return form, nil
}

func newFormsBatchFn(repo formRepo) dataloader.BatchFunc[string, []domain.MorphForm] {
	return func(ctx context.Context, keys []string) []*dataloader.Result[[]domain.MorphForm] {
		forms, err := repo.FormsByLemmas(ctx, keys)
		if err != nil {
			return errorResults[[]domain.MorphForm](len(keys), err)
		}

		grouped := make(map[string][]domain.MorphForm, len(keys))
		for _, f := range forms {
			grouped[f.Lemma] = append(grouped[f.Lemma], f)
		}

		results := make([]*dataloader.Result[[]domain.MorphForm], len(keys))
		for i, key := range keys {
			results[i] = &dataloader.Result[[]domain.MorphForm]{Data: grouped[key]}
		}
		return results
	}
}

// errorResults returns n results all carrying the same error.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}
