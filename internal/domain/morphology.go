package domain

// MorphForm is one row of the BÍN morphology database: a single inflected
// surface form of a lemma with its grammatical tag.
type MorphForm struct {
	Lemma    string // ord
	EntryID  int64  // id of the BÍN entry the form belongs to
	Tag      Tag    // ofl; may be a word class outside kk/kvk/hk/lo
	Domain   string // hluti, e.g. "alm"
	WordForm string // bmynd
	Mark     string // grammatical tag, e.g. "ÞGFFT" or "FSB-KK-NFET"
}

// SelectForm picks the form of lemma for cell from rows. Nouns match on
// their own gender tag when gender is set; adjectives match the strong
// positive form agreeing with gender. The first matching row wins.
func SelectForm(rows []MorphForm, lemma string, class WordClass, cell Cell, gender Gender) (string, bool) {
	mark := InflectionMark(class, cell, gender)
	for _, r := range rows {
		if r.Lemma != lemma || r.Mark != mark {
			continue
		}
		switch class {
		case WordClassAdjective:
			if r.Tag != TagAdjective {
				continue
			}
		case WordClassNoun:
			g, ok := r.Tag.Gender()
			if !ok || (gender.IsValid() && g != gender) {
				continue
			}
		}
		return r.WordForm, true
	}
	return "", false
}
