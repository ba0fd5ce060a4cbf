package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// UniqueSuffix returns a short unique string for generating non-conflicting test data.
func UniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedForms inserts BÍN rows in order.
func SeedForms(t *testing.T, pool *pgxpool.Pool, forms []domain.MorphForm) {
	t.Helper()
	ctx := context.Background()

	for _, f := range forms {
		_, err := pool.Exec(ctx,
			`INSERT INTO bin_forms (ord, bin_id, ofl, hluti, bmynd, mark)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			f.Lemma, f.EntryID, string(f.Tag), f.Domain, f.WordForm, f.Mark,
		)
		if err != nil {
			t.Fatalf("testhelper: SeedForms insert %s/%s: %v", f.Lemma, f.Mark, err)
		}
	}
}

// SeedParadigm inserts the 8 indefinite (noun) or strong masculine
// (adjective) forms of lemma, one per cell in canonical order.
func SeedParadigm(t *testing.T, pool *pgxpool.Pool, lemma string, entryID int64, tag domain.Tag, forms [8]string) {
	t.Helper()

	class := tag.Class()
	rows := make([]domain.MorphForm, 0, len(forms))
	for i, cell := range domain.Cells() {
		rows = append(rows, domain.MorphForm{
			Lemma:    lemma,
			EntryID:  entryID,
			Tag:      tag,
			Domain:   "alm",
			WordForm: forms[i],
			Mark:     domain.InflectionMark(class, cell, domain.GenderMasculine),
		})
	}
	SeedForms(t, pool, rows)
}

// SeedUnigram inserts or overwrites a unigram count.
func SeedUnigram(t *testing.T, pool *pgxpool.Pool, word string, count int64) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO unigrams (word, count) VALUES ($1, $2)
		 ON CONFLICT (word) DO UPDATE SET count = EXCLUDED.count`,
		word, count,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUnigram %s: %v", word, err)
	}
}
