// Package ngram implements the unigram frequency lookup on PostgreSQL.
package ngram

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/mideind/IcelandicEval/internal/adapter/postgres"
)

const table = "unigrams"

// Unigram is a word form with its corpus count.
type Unigram struct {
	Word  string
	Count int64
}

// Repo provides unigram counts backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
	sb   squirrel.StatementBuilderType
}

// New creates a new unigram repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{
		pool: pool,
		sb:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Score returns the corpus count of a word form.
func (r *Repo) Score(ctx context.Context, wordForm string) (int64, bool, error) {
	sql, args, err := r.sb.Select("count").
		From(table).
		Where(squirrel.Eq{"word": wordForm}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build score query: %w", err)
	}

	var count int64
	err = postgres.QuerierFromCtx(ctx, r.pool).QueryRow(ctx, sql, args...).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, postgres.MapError(err, "unigram", wordForm)
	}
	return count, count > 0, nil
}

// ReplaceAll empties the table and inserts unigrams in chunks of
// batchSize. Counts of a word repeated in the input are summed.
func (r *Repo) ReplaceAll(ctx context.Context, unigrams []Unigram, batchSize int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)
	if _, err := q.Exec(ctx, "TRUNCATE "+table); err != nil {
		return 0, postgres.MapError(err, "table", table)
	}
	if len(unigrams) == 0 {
		return 0, nil
	}

	// Sum repeated words first; a multi-row insert cannot touch the same key twice.
	order := make([]string, 0, len(unigrams))
	counts := make(map[string]int64, len(unigrams))
	for _, u := range unigrams {
		if _, ok := counts[u.Word]; !ok {
			order = append(order, u.Word)
		}
		counts[u.Word] += u.Count
	}

	batch := &pgx.Batch{}
	for start := 0; start < len(order); start += batchSize {
		end := min(start+batchSize, len(order))
		ins := r.sb.Insert(table).Columns("word", "count")
		for _, w := range order[start:end] {
			ins = ins.Values(w, counts[w])
		}
		sql, args, err := ins.ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		batch.Queue(sql, args...)
	}

	return postgres.SendBatchExec(ctx, q, batch)
}
