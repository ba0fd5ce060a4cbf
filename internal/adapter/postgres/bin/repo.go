// Package bin implements the BÍN morphology lookups on PostgreSQL.
// Queries are built with squirrel against the bin_forms table, which holds
// one row per inflected form (Sigrúnarsnið columns).
package bin

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mideind/IcelandicEval/internal/adapter/postgres"
	"github.com/mideind/IcelandicEval/internal/domain"
)

const table = "bin_forms"

var formColumns = []string{"ord", "bin_id", "ofl", "hluti", "bmynd", "mark"}

var nounTags = []string{string(domain.TagMasculineNoun), string(domain.TagFeminineNoun), string(domain.TagNeuterNoun)}

// Repo provides BÍN lookups backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// New creates a new BÍN repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WordForms returns the distinct surface forms of lemma under tag, in
// insertion order.
func (r *Repo) WordForms(ctx context.Context, lemma string, tag domain.Tag) ([]string, error) {
	q := r.sb.Select("bmynd").
		From(table).
		Where(squirrel.Eq{"ord": lemma, "ofl": string(tag)}).
		GroupBy("bmynd").
		OrderBy("MIN(id)")

	return collect(ctx, r, q, lemma, func(rows pgx.Rows) (string, error) {
		var form string
		err := rows.Scan(&form)
		return form, err
	})
}

// Analyze returns every (lemma, tag) a surface form can belong to.
func (r *Repo) Analyze(ctx context.Context, wordForm string) ([]domain.VocabularyEntry, error) {
	q := r.sb.Select("ord", "ofl").
		From(table).
		Where(squirrel.Eq{"bmynd": wordForm}).
		GroupBy("ord", "ofl").
		OrderBy("MIN(id)")

	return collect(ctx, r, q, wordForm, scanEntry)
}

// LemmaTags returns one tag per BÍN entry whose headword is lemma.
func (r *Repo) LemmaTags(ctx context.Context, lemma string) ([]domain.Tag, error) {
	q := r.sb.Select("ofl").
		From(table).
		Where(squirrel.Eq{"ord": lemma}).
		GroupBy("bin_id", "ofl").
		OrderBy("MIN(id)")

	return collect(ctx, r, q, lemma, func(rows pgx.Rows) (domain.Tag, error) {
		var tag string
		err := rows.Scan(&tag)
		return domain.Tag(tag), err
	})
}

// Gender returns the gender of the first noun entry of lemma.
func (r *Repo) Gender(ctx context.Context, noun string) (domain.Gender, error) {
	sql, args, err := r.sb.Select("ofl").
		From(table).
		Where(squirrel.Eq{"ord": noun, "ofl": nounTags}).
		OrderBy("id").
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build gender query: %w", err)
	}

	var ofl string
	if err := postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&ofl); err != nil {
		return "", postgres.MapError(err, "noun", noun)
	}
	return domain.ParseGender(ofl)
}

// Vocabulary lists the distinct (lemma, tag) pairs of a word class in
// insertion order.
func (r *Repo) Vocabulary(ctx context.Context, class domain.WordClass) ([]domain.VocabularyEntry, error) {
	tags := nounTags
	if class == domain.WordClassAdjective {
		tags = []string{string(domain.TagAdjective)}
	}

	q := r.sb.Select("ord", "ofl").
		From(table).
		Where(squirrel.Eq{"ofl": tags}).
		GroupBy("ord", "ofl").
		OrderBy("MIN(id)")

	return collect(ctx, r, q, class.String(), scanEntry)
}

// FormsByLemmas returns every row of the given lemmas in insertion order.
func (r *Repo) FormsByLemmas(ctx context.Context, lemmas []string) ([]domain.MorphForm, error) {
	if len(lemmas) == 0 {
		return []domain.MorphForm{}, nil
	}

	q := r.sb.Select(formColumns...).
		From(table).
		Where(squirrel.Eq{"ord": lemmas}).
		OrderBy("id")

	return collect(ctx, r, q, fmt.Sprintf("%d lemmas", len(lemmas)), func(rows pgx.Rows) (domain.MorphForm, error) {
		var f domain.MorphForm
		var tag string
		err := rows.Scan(&f.Lemma, &f.EntryID, &tag, &f.Domain, &f.WordForm, &f.Mark)
		f.Tag = domain.Tag(tag)
		return f, err
	})
}

// ReplaceAll empties the table and inserts forms in chunks of batchSize,
// preserving their order. Run it inside a transaction so readers never see
// a partial table.
func (r *Repo) ReplaceAll(ctx context.Context, forms []domain.MorphForm, batchSize int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, "TRUNCATE "+table+" RESTART IDENTITY"); err != nil {
		return 0, postgres.MapError(err, "table", table)
	}
	if len(forms) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for start := 0; start < len(forms); start += batchSize {
		end := min(start+batchSize, len(forms))
		ins := r.sb.Insert(table).Columns(formColumns...)
		for _, f := range forms[start:end] {
			ins = ins.Values(f.Lemma, f.EntryID, string(f.Tag), f.Domain, f.WordForm, f.Mark)
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		batch.Queue(sql, args...)
	}

	return postgres.SendBatchExec(ctx, q, batch)
}

func scanEntry(rows pgx.Rows) (domain.VocabularyEntry, error) {
	var e domain.VocabularyEntry
	var tag string
	err := rows.Scan(&e.Lemma, &tag)
	e.Tag = domain.Tag(tag)
	return e, err
}

// collect runs a select and scans every row with scan.
func collect[T any](ctx context.Context, r *Repo, q squirrel.SelectBuilder, key string, scan func(pgx.Rows) (T, error)) ([]T, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.pool).Query(ctx, sql, args...)
	if err != nil {
		return nil, postgres.MapError(err, "bin", key)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, postgres.MapError(err, "bin", key)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, postgres.MapError(err, "bin", key)
	}
	return out, nil
}
