package vocabulary

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/mideind/IcelandicEval/internal/domain"
)

var exported = []domain.VocabularyEntry{
	{Lemma: "stóll", Tag: domain.TagMasculineNoun},
	{Lemma: "stór", Tag: domain.TagAdjective},
	{Lemma: "kona", Tag: domain.TagFeminineNoun},
	{Lemma: "ganga", Tag: "so"},
}

func TestWrite_Nouns(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, domain.WordClassNoun, exported)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d rows, want 2", n)
	}
	if got, want := buf.String(), "stóll,kk\nkona,kvk\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestWrite_Adjectives(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, domain.WordClassAdjective, exported)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if n != 1 || buf.String() != "stór\n" {
		t.Errorf("Write = (%d, %q), want (1, %q)", n, buf.String(), "stór\n")
	}
}

func TestSave_LoadsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export", "nouns.csv")
	if _, err := Save(path, domain.WordClassNoun, exported); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	entries, stats, err := Load(path, domain.WordClassNoun, Filter{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if stats.Rejected != 0 || len(entries) != 2 {
		t.Fatalf("Load = %v (stats %+v), want 2 clean entries", entries, stats)
	}
	if entries[0] != exported[0] || entries[1] != exported[2] {
		t.Errorf("entries = %v", entries)
	}
}
