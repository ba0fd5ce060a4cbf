package paradigm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mideind/IcelandicEval/internal/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// tableInflector answers from a map keyed by lemma and BÍN mark.
type tableInflector struct {
	forms map[string]string
	err   error
	calls atomic.Int64
}

func (f *tableInflector) Inflect(_ context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return "", f.err
	}
	form, ok := f.forms[lemma+"|"+domain.InflectionMark(class, cell, gender)]
	if !ok {
		return "", domain.ErrInflectionUnavailable
	}
	return form, nil
}

func stollStor() map[string]string {
	m := make(map[string]string)
	noun := []string{"stóll", "stól", "stól", "stóls", "stólar", "stóla", "stólum", "stóla"}
	adj := []string{"stór", "stóran", "stórum", "stórs", "stórir", "stóra", "stórum", "stórra"}
	for i, cell := range domain.Cells() {
		m["stóll|"+domain.InflectionMark(domain.WordClassNoun, cell, domain.GenderMasculine)] = noun[i]
		m["stór|"+domain.InflectionMark(domain.WordClassAdjective, cell, domain.GenderMasculine)] = adj[i]
	}
	return m
}

func TestExpand_StollStor(t *testing.T) {
	t.Parallel()

	e := NewExpander(newTestLogger(), &tableInflector{forms: stollStor()}, 1)
	rec, err := e.Expand(context.Background(), domain.SamplePair{
		Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 1,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TierMedium, rec.Tier)
	assert.Equal(t, "stór stóll", rec.Phrase)
	assert.Contains(t, rec.Prompt, `"stór stóll"`)
	assert.True(t, rec.Completion.Complete())

	want := domain.Paradigm{
		Singular: domain.CaseForms{Nominative: "stór stóll", Accusative: "stóran stól", Dative: "stórum stól", Genitive: "stórs stóls"},
		Plural:   domain.CaseForms{Nominative: "stórir stólar", Accusative: "stóra stóla", Dative: "stórum stólum", Genitive: "stórra stóla"},
	}
	assert.Equal(t, want, rec.Completion)
}

func TestExpand_MissingCellFailsPair(t *testing.T) {
	t.Parallel()

	forms := stollStor()
	delete(forms, "stóll|EFFT")

	e := NewExpander(newTestLogger(), &tableInflector{forms: forms}, 1)
	_, err := e.Expand(context.Background(), domain.SamplePair{
		Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 0,
	})
	require.ErrorIs(t, err, domain.ErrInflectionUnavailable)

	var ie *domain.InflectionError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, "stóll", ie.Lemma)
	assert.Equal(t, "EFFT", ie.Cell.String())
}

func TestExpand_EmptyFormFailsPair(t *testing.T) {
	t.Parallel()

	forms := stollStor()
	forms["stór|FSB-KK-ÞFET"] = "  "

	e := NewExpander(newTestLogger(), &tableInflector{forms: forms}, 1)
	_, err := e.Expand(context.Background(), domain.SamplePair{
		Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine,
	})
	assert.ErrorIs(t, err, domain.ErrInflectionUnavailable)
}

func TestExpand_UnresolvedGender(t *testing.T) {
	t.Parallel()

	inf := &tableInflector{forms: stollStor()}
	e := NewExpander(newTestLogger(), inf, 1)
	_, err := e.Expand(context.Background(), domain.SamplePair{Adjective: "stór", Noun: "stóll"})
	assert.ErrorIs(t, err, domain.ErrInflectionUnavailable)
	assert.Zero(t, inf.calls.Load(), "no lookups without a gender")
}

func TestExpand_LookupUnavailableIsNotADrop(t *testing.T) {
	t.Parallel()

	down := fmt.Errorf("dial tcp: %w", domain.ErrLookupUnavailable)
	e := NewExpander(newTestLogger(), &tableInflector{err: down}, 1)
	_, err := e.Expand(context.Background(), domain.SamplePair{
		Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine,
	})
	require.ErrorIs(t, err, domain.ErrLookupUnavailable)
	assert.False(t, errors.Is(err, domain.ErrInflectionUnavailable))
}

func TestExpand_Idempotent(t *testing.T) {
	t.Parallel()

	e := NewExpander(newTestLogger(), &tableInflector{forms: stollStor()}, 1)
	pair := domain.SamplePair{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 2}

	var lines [][]byte
	for range 2 {
		rec, err := e.Expand(context.Background(), pair)
		require.NoError(t, err)
		for _, f := range []Format{FormatCompletion, FormatChat} {
			b, err := f.Marshal(rec)
			require.NoError(t, err)
			lines = append(lines, b)
		}
	}
	assert.Equal(t, lines[0], lines[2])
	assert.Equal(t, lines[1], lines[3])
}

func TestExpandAll_DropsAndKeepsOrder(t *testing.T) {
	t.Parallel()

	forms := stollStor()
	// "borð" has no entries, so every pair using it is dropped.
	pairs := []domain.SamplePair{
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 0},
		{Adjective: "stór", Noun: "borð", Gender: domain.GenderNeuter, Bucket: 0},
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 1},
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 2},
	}

	e := NewExpander(newTestLogger(), &tableInflector{forms: forms}, 4)
	recs, stats, err := e.ExpandAll(context.Background(), pairs)
	require.NoError(t, err)

	assert.Equal(t, Stats{Expanded: 3, Dropped: 1}, stats)
	require.Len(t, recs, 3)
	assert.Equal(t, domain.TierHard, recs[0].Tier)
	assert.Equal(t, domain.TierMedium, recs[1].Tier)
	assert.Equal(t, domain.TierEasy, recs[2].Tier)
	for _, r := range recs {
		assert.True(t, r.Completion.Complete())
	}
}

func TestExpandAll_LookupUnavailableAborts(t *testing.T) {
	t.Parallel()

	e := NewExpander(newTestLogger(), &tableInflector{err: domain.ErrLookupUnavailable}, 2)
	pairs := []domain.SamplePair{
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine},
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine},
	}
	_, _, err := e.ExpandAll(context.Background(), pairs)
	assert.ErrorIs(t, err, domain.ErrLookupUnavailable)
}

// failingInflector fails lemmas listed in errs and answers the rest from forms.
type failingInflector struct {
	tableInflector
	errs map[string]error
}

func (f *failingInflector) Inflect(ctx context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error) {
	if err, ok := f.errs[lemma]; ok {
		return "", err
	}
	return f.tableInflector.Inflect(ctx, lemma, class, cell, gender)
}

func TestExpandAll_EveryPairBackendFailureAborts(t *testing.T) {
	t.Parallel()

	// A query error that is not about the lemma, e.g. a missing table.
	broken := errors.New(`bin_forms "stór": relation "bin_forms" does not exist`)
	e := NewExpander(newTestLogger(), &tableInflector{err: broken}, 2)
	pairs := []domain.SamplePair{
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 0},
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 1},
	}

	recs, stats, err := e.ExpandAll(context.Background(), pairs)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLookupUnavailable)
	assert.ErrorIs(t, err, broken)
	assert.Nil(t, recs)
	assert.Equal(t, 2, stats.Dropped)
}

func TestExpandAll_PartialBackendFailureDrops(t *testing.T) {
	t.Parallel()

	inf := &failingInflector{
		tableInflector: tableInflector{forms: stollStor()},
		errs:           map[string]error{"borð": errors.New("malformed row")},
	}
	e := NewExpander(newTestLogger(), inf, 2)
	pairs := []domain.SamplePair{
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 0},
		{Adjective: "stór", Noun: "borð", Gender: domain.GenderNeuter, Bucket: 0},
	}

	recs, stats, err := e.ExpandAll(context.Background(), pairs)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Equal(t, Stats{Expanded: 1, Dropped: 1}, stats)
}

func TestExpandAll_EveryPairMissingFormsIsNotAnOutage(t *testing.T) {
	t.Parallel()

	e := NewExpander(newTestLogger(), &tableInflector{forms: map[string]string{}}, 2)
	pairs := []domain.SamplePair{
		{Adjective: "stór", Noun: "borð", Gender: domain.GenderNeuter},
		{Adjective: "stór", Noun: "stóll"},
	}

	recs, stats, err := e.ExpandAll(context.Background(), pairs)
	require.NoError(t, err)
	assert.Empty(t, recs)
	assert.Equal(t, Stats{Dropped: 2}, stats)
}

func TestExpandAll_BucketOutOfRange(t *testing.T) {
	t.Parallel()

	e := NewExpander(newTestLogger(), &tableInflector{forms: stollStor()}, 1)
	_, _, err := e.ExpandAll(context.Background(), []domain.SamplePair{
		{Adjective: "stór", Noun: "stóll", Gender: domain.GenderMasculine, Bucket: 3},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
