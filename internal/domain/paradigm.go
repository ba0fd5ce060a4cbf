package domain

// Cell is one (case, number) slot of a paradigm.
type Cell struct {
	Case   Case
	Number Number
}

func (c Cell) String() string { return string(c.Case) + string(c.Number) }

// Cells returns the 8 paradigm cells in canonical number-major order:
// singular nf, þf, þgf, ef, then plural nf, þf, þgf, ef.
func Cells() []Cell {
	cells := make([]Cell, 0, len(Cases())*len(Numbers()))
	for _, n := range Numbers() {
		for _, c := range Cases() {
			cells = append(cells, Cell{Case: c, Number: n})
		}
	}
	return cells
}

// CaseForms holds the phrase for each case within one number.
// Field order fixes the JSON key order.
type CaseForms struct {
	Nominative string `json:"nf"`
	Accusative string `json:"þf"`
	Dative     string `json:"þgf"`
	Genitive   string `json:"ef"`
}

func (f *CaseForms) slot(c Case) *string {
	switch c {
	case CaseNominative:
		return &f.Nominative
	case CaseAccusative:
		return &f.Accusative
	case CaseDative:
		return &f.Dative
	case CaseGenitive:
		return &f.Genitive
	}
	return nil
}

// Paradigm is the fully inflected 8-cell table of a noun phrase.
type Paradigm struct {
	Singular CaseForms `json:"et"`
	Plural   CaseForms `json:"ft"`
}

func (p *Paradigm) forms(n Number) *CaseForms {
	if n == NumberPlural {
		return &p.Plural
	}
	return &p.Singular
}

// Set stores the phrase for a cell. Invalid cells are ignored.
func (p *Paradigm) Set(cell Cell, phrase string) {
	if !cell.Number.IsValid() {
		return
	}
	if s := p.forms(cell.Number).slot(cell.Case); s != nil {
		*s = phrase
	}
}

// Get returns the phrase stored for a cell.
func (p Paradigm) Get(cell Cell) string {
	if !cell.Number.IsValid() {
		return ""
	}
	if s := p.forms(cell.Number).slot(cell.Case); s != nil {
		return *s
	}
	return ""
}

// Complete reports whether every cell holds a non-empty phrase.
func (p Paradigm) Complete() bool {
	for _, c := range Cells() {
		if p.Get(c) == "" {
			return false
		}
	}
	return true
}

// InflectionMark returns the BÍN grammatical tag of a cell: "ÞGFFT" for
// indefinite noun forms, "FSB-KK-ÞGFFT" for strong positive adjective forms
// agreeing with gender.
func InflectionMark(class WordClass, cell Cell, gender Gender) string {
	if class == WordClassAdjective {
		return "FSB-" + gender.Mark() + "-" + cell.String()
	}
	return cell.String()
}
