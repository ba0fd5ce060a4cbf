package memory

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FrequencyTable holds unigram counts loaded from a "word<TAB>count" file.
type FrequencyTable struct {
	counts map[string]int64
}

// NewFrequencyTable creates a table from a map; the map is copied.
func NewFrequencyTable(counts map[string]int64) *FrequencyTable {
	t := &FrequencyTable{counts: make(map[string]int64, len(counts))}
	for w, c := range counts {
		t.counts[w] = c
	}
	return t
}

// LoadFrequencyTable reads a unigram file.
func LoadFrequencyTable(path string) (*FrequencyTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unigrams: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseFrequencyTable(f)
	if err != nil {
		return nil, fmt.Errorf("unigrams: %s: %w", path, err)
	}
	return t, nil
}

// ParseFrequencyTable reads tab-separated word/count lines. Counts of a
// repeated word are summed.
func ParseFrequencyTable(r io.Reader) (*FrequencyTable, error) {
	t := &FrequencyTable{counts: make(map[string]int64)}
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, raw, ok := strings.Cut(text, "\t")
		if !ok {
			return nil, fmt.Errorf("line %d: missing tab separator", line)
		}
		count, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("line %d: bad count %q", line, raw)
		}
		t.counts[strings.TrimSpace(word)] += count
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return t, nil
}

// Score returns the corpus count of a word form.
func (t *FrequencyTable) Score(_ context.Context, wordForm string) (int64, bool, error) {
	c, ok := t.counts[wordForm]
	return c, ok, nil
}

// Counts returns a copy of the table.
func (t *FrequencyTable) Counts() map[string]int64 {
	out := make(map[string]int64, len(t.counts))
	for w, c := range t.counts {
		out[w] = c
	}
	return out
}

// Len returns the number of distinct word forms.
func (t *FrequencyTable) Len() int { return len(t.counts) }
