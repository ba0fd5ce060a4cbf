package paradigm

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mideind/IcelandicEval/internal/domain"
)

// Tiers lists the difficulty tiers in bucket order.
func Tiers() []domain.Tier {
	return []domain.Tier{domain.TierHard, domain.TierMedium, domain.TierEasy}
}

// Writer persists records into one JSONL file per tier.
type Writer struct {
	dir    string
	format Format
}

// NewWriter creates a Writer that writes into dir using format.
func NewWriter(dir string, format Format) *Writer {
	return &Writer{dir: dir, format: format}
}

// Path returns the output file of a tier.
func (w *Writer) Path(tier domain.Tier) string {
	return filepath.Join(w.dir, fmt.Sprintf("icelandic-inflection-%s.jsonl", tier))
}

// WriteAll groups records by tier and replaces every tier file, including
// tiers that received no records. It returns the record count per tier.
func (w *Writer) WriteAll(records []domain.Record) (map[domain.Tier]int, error) {
	byTier := make(map[domain.Tier][]domain.Record, len(Tiers()))
	for _, rec := range records {
		byTier[rec.Tier] = append(byTier[rec.Tier], rec)
	}

	counts := make(map[domain.Tier]int, len(Tiers()))
	for _, tier := range Tiers() {
		if err := w.WriteTier(tier, byTier[tier]); err != nil {
			return nil, err
		}
		counts[tier] = len(byTier[tier])
	}
	return counts, nil
}

// WriteTier replaces the file of one tier with records, in order.
func (w *Writer) WriteTier(tier domain.Tier, records []domain.Record) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	path := w.Path(tier)
	tmp, err := os.CreateTemp(w.dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	bw := bufio.NewWriter(tmp)
	for _, rec := range records {
		if err := w.format.Encode(bw, rec); err != nil {
			tmp.Close()
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	if err := bw.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
