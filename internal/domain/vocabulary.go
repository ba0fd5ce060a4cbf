package domain

// VocabularyEntry is a lemma with its part-of-speech/gender tag.
type VocabularyEntry struct {
	Lemma string
	Tag   Tag
}

// ScoredLemma is a lemma with its corpus word-form frequency.
type ScoredLemma struct {
	Lemma string
	Score int64
}

// Bucket is one frequency-ranked partition of a word class.
// Lemmas are ordered by ascending frequency.
type Bucket struct {
	Class  WordClass
	Index  int
	Lemmas []string
}

// Len returns the number of lemmas in the bucket.
func (b Bucket) Len() int { return len(b.Lemmas) }

// SamplePair is an adjective/noun pair drawn from same-index buckets.
// Gender is the noun's gender; the adjective is inflected to agree with it.
type SamplePair struct {
	Adjective string
	Noun      string
	Gender    Gender
	Bucket    int
}

// Record is one evaluation example: the task prompt and the ideal
// completion for a sampled pair, destined for the file of its tier.
type Record struct {
	Tier       Tier
	Phrase     string
	Prompt     string
	Completion Paradigm
}
