package domain

import (
	"errors"
	"testing"
)

func TestParseTag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Tag
		wantErr bool
	}{
		{"kk", TagMasculineNoun, false},
		{"KVK", TagFeminineNoun, false},
		{" hk ", TagNeuterNoun, false},
		{"lo", TagAdjective, false},
		{"so", "", true},
		{"", "", true},
		{"masculine", "", true},
	}
	for _, tt := range tests {
		t.Run("tag_"+tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTag(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTag) {
					t.Fatalf("ParseTag(%q) error = %v, want ErrInvalidTag", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseTag(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTag_ClassAndGender(t *testing.T) {
	t.Parallel()

	if TagAdjective.Class() != WordClassAdjective {
		t.Error("lo should be an adjective tag")
	}
	if _, ok := TagAdjective.Gender(); ok {
		t.Error("adjective tag should carry no gender")
	}
	for tag, want := range map[Tag]Gender{
		TagMasculineNoun: GenderMasculine,
		TagFeminineNoun:  GenderFeminine,
		TagNeuterNoun:    GenderNeuter,
	} {
		if tag.Class() != WordClassNoun {
			t.Errorf("%s.Class() = %s, want NOUN", tag, tag.Class())
		}
		g, ok := tag.Gender()
		if !ok || g != want {
			t.Errorf("%s.Gender() = %q, %v; want %q", tag, g, ok, want)
		}
	}
}

func TestParseGender_Rejects(t *testing.T) {
	t.Parallel()

	if _, err := ParseGender("lo"); !errors.Is(err, ErrInvalidTag) {
		t.Fatalf("ParseGender(lo) error = %v, want ErrInvalidTag", err)
	}
	g, err := ParseGender("KVK")
	if err != nil || g != GenderFeminine {
		t.Fatalf("ParseGender(KVK) = %q, %v", g, err)
	}
	if g.Mark() != "KVK" {
		t.Errorf("Mark() = %q, want KVK", g.Mark())
	}
}

func TestTierForBucket(t *testing.T) {
	t.Parallel()

	want := map[int]Tier{0: TierHard, 1: TierMedium, 2: TierEasy}
	for b, tier := range want {
		got, err := TierForBucket(b)
		if err != nil {
			t.Fatalf("TierForBucket(%d) unexpected error: %v", b, err)
		}
		if got != tier {
			t.Errorf("TierForBucket(%d) = %q, want %q", b, got, tier)
		}
	}

	for _, b := range []int{-1, 3} {
		if _, err := TierForBucket(b); !errors.Is(err, ErrValidation) {
			t.Errorf("TierForBucket(%d) error = %v, want ErrValidation", b, err)
		}
	}
}

func TestWordClass_ArtifactPrefix(t *testing.T) {
	t.Parallel()

	if got := WordClassNoun.ArtifactPrefix(); got != "nouns" {
		t.Errorf("noun prefix = %q", got)
	}
	if got := WordClassAdjective.ArtifactPrefix(); got != "adj" {
		t.Errorf("adjective prefix = %q", got)
	}
}
