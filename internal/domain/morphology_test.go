package domain

import "testing"

func TestSelectForm(t *testing.T) {
	t.Parallel()

	rows := []MorphForm{
		{Lemma: "stóll", Tag: TagMasculineNoun, WordForm: "stólnum", Mark: "ÞGFETgr"},
		{Lemma: "stóll", Tag: TagMasculineNoun, WordForm: "stól", Mark: "ÞGFET"},
		{Lemma: "stór", Tag: TagAdjective, WordForm: "stórum", Mark: "FSB-KK-ÞGFET"},
		{Lemma: "stór", Tag: TagAdjective, WordForm: "stóru", Mark: "FSB-HK-ÞGFET"},
		{Lemma: "fara", Tag: "so", WordForm: "fór", Mark: "GM-FH-ÞT-1P-ET"},
	}
	dat := Cell{Case: CaseDative, Number: NumberSingular}

	tests := []struct {
		name   string
		lemma  string
		class  WordClass
		gender Gender
		want   string
		ok     bool
	}{
		{"indefinite noun", "stóll", WordClassNoun, GenderMasculine, "stól", true},
		{"noun without gender", "stóll", WordClassNoun, "", "stól", true},
		{"noun wrong gender", "stóll", WordClassNoun, GenderFeminine, "", false},
		{"adjective masculine", "stór", WordClassAdjective, GenderMasculine, "stórum", true},
		{"adjective neuter", "stór", WordClassAdjective, GenderNeuter, "stóru", true},
		{"adjective feminine missing", "stór", WordClassAdjective, GenderFeminine, "", false},
		{"unknown lemma", "borð", WordClassNoun, GenderNeuter, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SelectForm(rows, tt.lemma, tt.class, dat, tt.gender)
			if got != tt.want || ok != tt.ok {
				t.Errorf("SelectForm = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}
