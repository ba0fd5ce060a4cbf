package domain

import (
	"fmt"
	"strings"
)

// BucketCount is the number of frequency buckets per word class.
const BucketCount = 3

// WordClass is the part-of-speech class a vocabulary list is built for.
type WordClass string

const (
	WordClassNoun      WordClass = "NOUN"
	WordClassAdjective WordClass = "ADJECTIVE"
)

func (c WordClass) String() string { return string(c) }

func (c WordClass) IsValid() bool {
	switch c {
	case WordClassNoun, WordClassAdjective:
		return true
	}
	return false
}

// ArtifactPrefix returns the file name prefix used for the class's bucket files.
func (c WordClass) ArtifactPrefix() string {
	if c == WordClassAdjective {
		return "adj"
	}
	return "nouns"
}

// Tag is the part-of-speech/gender tag of a vocabulary entry, using the
// BÍN word class codes.
type Tag string

const (
	TagMasculineNoun Tag = "kk"
	TagFeminineNoun  Tag = "kvk"
	TagNeuterNoun    Tag = "hk"
	TagAdjective     Tag = "lo"
)

func (t Tag) String() string { return string(t) }

func (t Tag) IsValid() bool {
	switch t {
	case TagMasculineNoun, TagFeminineNoun, TagNeuterNoun, TagAdjective:
		return true
	}
	return false
}

// Class returns the word class the tag belongs to.
func (t Tag) Class() WordClass {
	if t == TagAdjective {
		return WordClassAdjective
	}
	return WordClassNoun
}

// Gender returns the grammatical gender carried by a noun tag.
// Adjective tags carry no gender.
func (t Tag) Gender() (Gender, bool) {
	switch t {
	case TagMasculineNoun:
		return GenderMasculine, true
	case TagFeminineNoun:
		return GenderFeminine, true
	case TagNeuterNoun:
		return GenderNeuter, true
	}
	return "", false
}

// ParseTag converts a raw vocabulary tag into a Tag.
// Unrecognized values fail with ErrInvalidTag.
func ParseTag(s string) (Tag, error) {
	t := Tag(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("tag %q: %w", s, ErrInvalidTag)
	}
	return t, nil
}

// Gender is the grammatical gender of a noun.
type Gender string

const (
	GenderMasculine Gender = "kk"
	GenderFeminine  Gender = "kvk"
	GenderNeuter    Gender = "hk"
)

func (g Gender) String() string { return string(g) }

func (g Gender) IsValid() bool {
	switch g {
	case GenderMasculine, GenderFeminine, GenderNeuter:
		return true
	}
	return false
}

// Mark returns the gender segment used in BÍN adjective tags (KK, KVK, HK).
func (g Gender) Mark() string { return strings.ToUpper(string(g)) }

// ParseGender converts a raw gender tag into a Gender.
func ParseGender(s string) (Gender, error) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	if !g.IsValid() {
		return "", fmt.Errorf("gender %q: %w", s, ErrInvalidTag)
	}
	return g, nil
}

// Case is a grammatical case.
type Case string

const (
	CaseNominative Case = "NF"
	CaseAccusative Case = "ÞF"
	CaseDative     Case = "ÞGF"
	CaseGenitive   Case = "EF"
)

func (c Case) String() string { return string(c) }

func (c Case) IsValid() bool {
	switch c {
	case CaseNominative, CaseAccusative, CaseDative, CaseGenitive:
		return true
	}
	return false
}

// Cases lists the cases in canonical order.
func Cases() []Case {
	return []Case{CaseNominative, CaseAccusative, CaseDative, CaseGenitive}
}

// Number is a grammatical number.
type Number string

const (
	NumberSingular Number = "ET"
	NumberPlural   Number = "FT"
)

func (n Number) String() string { return string(n) }

func (n Number) IsValid() bool {
	return n == NumberSingular || n == NumberPlural
}

// Numbers lists the numbers in canonical order.
func Numbers() []Number {
	return []Number{NumberSingular, NumberPlural}
}

// Tier is the difficulty tier a bucket maps to.
type Tier string

const (
	TierHard   Tier = "hard"
	TierMedium Tier = "medium"
	TierEasy   Tier = "easy"
)

func (t Tier) String() string { return string(t) }

// TierForBucket maps a bucket index to its difficulty tier.
// Bucket 0 holds the least frequent vocabulary and is the hardest.
func TierForBucket(bucket int) (Tier, error) {
	switch bucket {
	case 0:
		return TierHard, nil
	case 1:
		return TierMedium, nil
	case 2:
		return TierEasy, nil
	}
	return "", NewValidationError("bucket", fmt.Sprintf("index %d out of range [0,%d)", bucket, BucketCount))
}
