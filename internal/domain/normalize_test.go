package domain

import "testing"

func TestNormalizeLemma(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  borð  ", want: "borð"},
		{name: "case preserved", input: "Reykjavík", want: "Reykjavík"},
		{name: "compress whitespace", input: "gamli   maður", want: "gamli maður"},
		{name: "tabs", input: "\tstóll\t", want: "stóll"},
		{name: "decomposed accent composed", input: "sto\u0301ll", want: "st\u00f3ll"},
		{name: "empty", input: "", want: ""},
		{name: "only spaces", input: "   ", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeLemma(tt.input); got != tt.want {
				t.Errorf("NormalizeLemma(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestIsProperNoun(t *testing.T) {
	t.Parallel()

	tests := map[string]bool{
		"Ísland": true,
		"Jón":    true,
		"ís":     false,
		"borð":   false,
		"":       false,
	}
	for in, want := range tests {
		if got := IsProperNoun(in); got != want {
			t.Errorf("IsProperNoun(%q) = %v, want %v", in, got, want)
		}
	}
}
