package vocabulary

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Write emits entries of class in the format Parse reads back: "lemma,gender"
// rows for nouns and one lemma per row for adjectives. Entries of another
// class or with an unknown tag are skipped. It returns the number of rows written.
func Write(w io.Writer, class domain.WordClass, entries []domain.VocabularyEntry) (int, error) {
	cw := csv.NewWriter(w)
	n := 0
	for _, e := range entries {
		if !e.Tag.IsValid() || e.Tag.Class() != class {
			continue
		}
		record := []string{e.Lemma}
		if class == domain.WordClassNoun {
			record = append(record, e.Tag.String())
		}
		if err := cw.Write(record); err != nil {
			return n, fmt.Errorf("write %q: %w", e.Lemma, err)
		}
		n++
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

// Save replaces the vocabulary file at path.
func Save(path string, class domain.WordClass, entries []domain.VocabularyEntry) (int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create vocabulary dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create vocabulary file: %w", err)
	}
	n, err := Write(f, class, entries)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("close vocabulary file: %w", cerr)
	}
	return n, err
}
