package domain

import (
	"encoding/json"
	"testing"
)

func TestCells_CanonicalOrder(t *testing.T) {
	t.Parallel()

	cells := Cells()
	if len(cells) != 8 {
		t.Fatalf("len(Cells()) = %d, want 8", len(cells))
	}
	want := []string{"NFET", "ÞFET", "ÞGFET", "EFET", "NFFT", "ÞFFT", "ÞGFFT", "EFFT"}
	for i, c := range cells {
		if c.String() != want[i] {
			t.Errorf("Cells()[%d] = %s, want %s", i, c, want[i])
		}
	}
}

func TestParadigm_SetGetComplete(t *testing.T) {
	t.Parallel()

	var p Paradigm
	for i, c := range Cells() {
		if p.Complete() {
			t.Fatalf("paradigm complete after %d cells", i)
		}
		p.Set(c, c.String())
	}
	if !p.Complete() {
		t.Fatal("paradigm should be complete after all 8 cells")
	}
	for _, c := range Cells() {
		if got := p.Get(c); got != c.String() {
			t.Errorf("Get(%s) = %q", c, got)
		}
	}

	p.Set(Cell{Case: "XX", Number: NumberSingular}, "ignored")
	if got := p.Get(Cell{Case: "XX", Number: NumberSingular}); got != "" {
		t.Errorf("invalid cell returned %q", got)
	}
}

func TestParadigm_JSONKeyOrder(t *testing.T) {
	t.Parallel()

	var p Paradigm
	for _, c := range Cells() {
		p.Set(c, "x")
	}
	b, err := json.Marshal(p)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"et":{"nf":"x","þf":"x","þgf":"x","ef":"x"},"ft":{"nf":"x","þf":"x","þgf":"x","ef":"x"}}`
	if string(b) != want {
		t.Errorf("json = %s\nwant  %s", b, want)
	}
}

func TestInflectionMark(t *testing.T) {
	t.Parallel()

	dative := Cell{Case: CaseDative, Number: NumberPlural}
	tests := []struct {
		class  WordClass
		gender Gender
		want   string
	}{
		{WordClassNoun, GenderMasculine, "ÞGFFT"},
		{WordClassAdjective, GenderMasculine, "FSB-KK-ÞGFFT"},
		{WordClassAdjective, GenderFeminine, "FSB-KVK-ÞGFFT"},
		{WordClassAdjective, GenderNeuter, "FSB-HK-ÞGFFT"},
	}
	for _, tt := range tests {
		if got := InflectionMark(tt.class, dative, tt.gender); got != tt.want {
			t.Errorf("InflectionMark(%s, %s) = %q, want %q", tt.class, tt.gender, got, tt.want)
		}
	}
}
