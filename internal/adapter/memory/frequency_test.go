package memory

import (
	"context"
	"strings"
	"testing"
)

func TestFrequencyTable_Load(t *testing.T) {
	t.Parallel()

	tbl, err := LoadFrequencyTable(testdataPath("unigrams.tsv"))
	if err != nil {
		t.Fatalf("LoadFrequencyTable: %v", err)
	}
	if tbl.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tbl.Len())
	}

	tests := []struct {
		word  string
		count int64
		found bool
	}{
		{"stóll", 40, true},
		{"stóra", 5, true},
		{"kona", 0, false},
	}
	for _, tt := range tests {
		c, found, err := tbl.Score(context.Background(), tt.word)
		if err != nil {
			t.Fatal(err)
		}
		if c != tt.count || found != tt.found {
			t.Errorf("Score(%s) = (%d, %v), want (%d, %v)", tt.word, c, found, tt.count, tt.found)
		}
	}
}

func TestParseFrequencyTable_Errors(t *testing.T) {
	t.Parallel()

	for name, input := range map[string]string{
		"no tab":         "borð 5\n",
		"bad count":      "borð\tfive\n",
		"negative count": "borð\t-1\n",
	} {
		if _, err := ParseFrequencyTable(strings.NewReader(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestNewFrequencyTable_Copies(t *testing.T) {
	t.Parallel()

	src := map[string]int64{"borð": 5}
	tbl := NewFrequencyTable(src)
	src["borð"] = 99

	c, _, _ := tbl.Score(context.Background(), "borð")
	if c != 5 {
		t.Errorf("Score = %d, want 5", c)
	}
}
