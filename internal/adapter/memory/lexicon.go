// Package memory provides file-backed, in-process implementations of the
// morphology and frequency lookups.
package memory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Lexicon is an in-memory BÍN morphology database loaded from a
// Sigrúnarsnið export ("ord;id;ofl;hluti;bmynd;mark" per line).
type Lexicon struct {
	byLemma map[string][]domain.MorphForm
	byForm  map[string][]domain.MorphForm
	order   []string
	all     []domain.MorphForm
}

// LoadLexicon reads a Sigrúnarsnið file.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open %s: %w", path, err)
	}
	defer f.Close()

	lex, err := ParseLexicon(f)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %s: %w", path, err)
	}
	return lex, nil
}

// ParseLexicon reads Sigrúnarsnið rows from r. Lines starting with '#' and
// rows with fewer than six fields are skipped.
func ParseLexicon(r io.Reader) (*Lexicon, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	lex := &Lexicon{
		byLemma: make(map[string][]domain.MorphForm),
		byForm:  make(map[string][]domain.MorphForm),
	}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < 6 {
			continue
		}
		id, _ := strconv.ParseInt(strings.TrimSpace(rec[1]), 10, 64)
		lex.Add(domain.MorphForm{
			Lemma:    strings.TrimSpace(rec[0]),
			EntryID:  id,
			Tag:      domain.Tag(strings.TrimSpace(rec[2])),
			Domain:   strings.TrimSpace(rec[3]),
			WordForm: strings.TrimSpace(rec[4]),
			Mark:     strings.TrimSpace(rec[5]),
		})
	}
	return lex, nil
}

// Add inserts a single form.
func (l *Lexicon) Add(f domain.MorphForm) {
	if _, ok := l.byLemma[f.Lemma]; !ok {
		l.order = append(l.order, f.Lemma)
	}
	l.all = append(l.all, f)
	l.byLemma[f.Lemma] = append(l.byLemma[f.Lemma], f)
	l.byForm[f.WordForm] = append(l.byForm[f.WordForm], f)
}

// Forms returns every form in insertion order.
func (l *Lexicon) Forms() []domain.MorphForm { return l.all }

// Len returns the number of lemmas.
func (l *Lexicon) Len() int { return len(l.byLemma) }

// WordForms returns the distinct surface forms of lemma under tag, in file
// order.
func (l *Lexicon) WordForms(_ context.Context, lemma string, tag domain.Tag) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, f := range l.byLemma[lemma] {
		if f.Tag != tag || seen[f.WordForm] {
			continue
		}
		seen[f.WordForm] = true
		out = append(out, f.WordForm)
	}
	return out, nil
}

// Analyze returns every (lemma, tag) a surface form can belong to.
func (l *Lexicon) Analyze(_ context.Context, wordForm string) ([]domain.VocabularyEntry, error) {
	seen := make(map[domain.VocabularyEntry]bool)
	var out []domain.VocabularyEntry
	for _, f := range l.byForm[wordForm] {
		e := domain.VocabularyEntry{Lemma: f.Lemma, Tag: f.Tag}
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	return out, nil
}

// LemmaTags returns one tag per BÍN entry whose headword is lemma. Two
// entries with the same tag (homographs) yield the tag twice.
func (l *Lexicon) LemmaTags(_ context.Context, lemma string) ([]domain.Tag, error) {
	type key struct {
		id  int64
		tag domain.Tag
	}
	seen := make(map[key]bool)
	var out []domain.Tag
	for _, f := range l.byLemma[lemma] {
		k := key{f.EntryID, f.Tag}
		if !seen[k] {
			seen[k] = true
			out = append(out, f.Tag)
		}
	}
	return out, nil
}

// Gender returns the gender of the first noun entry of lemma.
func (l *Lexicon) Gender(_ context.Context, noun string) (domain.Gender, error) {
	for _, f := range l.byLemma[noun] {
		if g, ok := f.Tag.Gender(); ok {
			return g, nil
		}
	}
	return "", fmt.Errorf("noun %q: %w", noun, domain.ErrNotFound)
}

// Inflect returns the form of lemma for cell.
func (l *Lexicon) Inflect(_ context.Context, lemma string, class domain.WordClass, cell domain.Cell, gender domain.Gender) (string, error) {
	form, ok := domain.SelectForm(l.byLemma[lemma], lemma, class, cell, gender)
	if !ok {
		return "", fmt.Errorf("%s %q %s: %w", class, lemma, domain.InflectionMark(class, cell, gender), domain.ErrInflectionUnavailable)
	}
	return form, nil
}

// Vocabulary lists the lemmas of a class in file order, one entry per
// distinct (lemma, tag).
func (l *Lexicon) Vocabulary(_ context.Context, class domain.WordClass) ([]domain.VocabularyEntry, error) {
	var out []domain.VocabularyEntry
	for _, lemma := range l.order {
		seen := make(map[domain.Tag]bool)
		for _, f := range l.byLemma[lemma] {
			if !f.Tag.IsValid() || f.Tag.Class() != class || seen[f.Tag] {
				continue
			}
			seen[f.Tag] = true
			out = append(out, domain.VocabularyEntry{Lemma: lemma, Tag: f.Tag})
		}
	}
	return out, nil
}
