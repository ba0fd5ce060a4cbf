// Package vocabulary parses the BÍN vocabulary exports (nouns.csv and
// adjectives.csv) into domain entries.
// Pure function: readers in, domain structs out. No lookup dependencies.
package vocabulary

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Filter holds the ingestion-time exclusion rules.
type Filter struct {
	// Avoid lists lemmas that slip through frequency filtering by being
	// word forms of other lemmas.
	Avoid map[string]bool
	// SkipSuffixes drops lemmas ending in any of the suffixes ("legur" for
	// adjectives: they all inflect alike).
	SkipSuffixes []string
	// KeepProperNouns disables skipping of capitalized lemmas.
	KeepProperNouns bool
}

// NewFilter builds a Filter from plain lists.
func NewFilter(avoid, skipSuffixes []string) Filter {
	f := Filter{Avoid: make(map[string]bool, len(avoid)), SkipSuffixes: skipSuffixes}
	for _, a := range avoid {
		if a = domain.NormalizeLemma(a); a != "" {
			f.Avoid[a] = true
		}
	}
	return f
}

// Stats counts what happened to the rows of a vocabulary file.
type Stats struct {
	Rows       int
	Accepted   int
	Rejected   int // malformed rows or unknown tags
	ProperNoun int
	Filtered   int // avoid list and suffix rules
}

// Load opens the vocabulary file for the given class and parses it.
func Load(path string, class domain.WordClass, filter Filter) ([]domain.VocabularyEntry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open vocabulary file: %w", err)
	}
	defer f.Close()

	switch class {
	case domain.WordClassNoun:
		return ParseNouns(f, filter)
	case domain.WordClassAdjective:
		return ParseAdjectives(f, filter)
	}
	return nil, Stats{}, domain.NewValidationError("class", fmt.Sprintf("unknown word class %q", class))
}

// ParseNouns reads "lemma,gender" rows, gender being one of kk, kvk, hk.
// Rows with another tag are rejected; capitalized lemmas (proper nouns)
// are skipped unless the filter keeps them.
func ParseNouns(r io.Reader, filter Filter) ([]domain.VocabularyEntry, Stats, error) {
	return parse(r, filter, func(record []string) (domain.VocabularyEntry, bool) {
		if len(record) != 2 {
			return domain.VocabularyEntry{}, false
		}
		tag, err := domain.ParseTag(record[1])
		if err != nil || tag.Class() != domain.WordClassNoun {
			return domain.VocabularyEntry{}, false
		}
		return domain.VocabularyEntry{Lemma: record[0], Tag: tag}, true
	})
}

// ParseAdjectives reads one lemma per row. An optional second column must
// hold the adjective tag "lo".
func ParseAdjectives(r io.Reader, filter Filter) ([]domain.VocabularyEntry, Stats, error) {
	return parse(r, filter, func(record []string) (domain.VocabularyEntry, bool) {
		switch len(record) {
		case 1:
		case 2:
			tag, err := domain.ParseTag(record[1])
			if err != nil || tag != domain.TagAdjective {
				return domain.VocabularyEntry{}, false
			}
		default:
			return domain.VocabularyEntry{}, false
		}
		return domain.VocabularyEntry{Lemma: record[0], Tag: domain.TagAdjective}, true
	})
}

func parse(r io.Reader, filter Filter, row func([]string) (domain.VocabularyEntry, bool)) ([]domain.VocabularyEntry, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.ReuseRecord = true

	var (
		stats   Stats
		entries []domain.VocabularyEntry
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row %d: %w", stats.Rows+1, err)
		}

		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		stats.Rows++

		entry, ok := row(record)
		if !ok {
			stats.Rejected++
			continue
		}
		entry.Lemma = domain.NormalizeLemma(entry.Lemma)
		if entry.Lemma == "" {
			stats.Rejected++
			continue
		}

		if !filter.KeepProperNouns && domain.IsProperNoun(entry.Lemma) {
			stats.ProperNoun++
			continue
		}
		if filter.excludes(entry.Lemma) {
			stats.Filtered++
			continue
		}

		entries = append(entries, entry)
		stats.Accepted++
	}

	return entries, stats, nil
}

func (f Filter) excludes(lemma string) bool {
	if f.Avoid[lemma] {
		return true
	}
	for _, s := range f.SkipSuffixes {
		if s != "" && strings.HasSuffix(lemma, s) {
			return true
		}
	}
	return false
}
