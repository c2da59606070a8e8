package keyword

import (
	"slices"
	"testing"
)

func TestWords(t *testing.T) {
	got := Words("I won't rest. Work, WORK!  it’s fine")
	want := []string{"i", "won't", "rest", "work", "work", "it’s", "fine"}
	if !slices.Equal(got, want) {
		t.Fatalf("Words = %q, want %q", got, want)
	}
}

func TestMatchWholeWords(t *testing.T) {
	s := New("rest", "won")
	for _, text := range []string{"an interesting day", "a restaurant", "I feel wonderful", "I won't go"} {
		if s.Match(text) {
			t.Errorf("%q should not match", text)
		}
	}
	for _, text := range []string{"I need rest.", "We WON!"} {
		if !s.Match(text) {
			t.Errorf("%q should match", text)
		}
	}
}

func TestMatchPrefixAndPhrase(t *testing.T) {
	s := New("learn*", "good day", "managed to")
	cases := map[string]bool{
		"I'm learning to cook":          true,
		"what a good day":               true,
		"good. Day two":                 true,
		"a good sunny day":              false,
		"I managed to finish":           true,
		"I managed, to be fair, barely": true,
		"unlearned":                     false,
	}
	for text, want := range cases {
		if got := s.Match(text); got != want {
			t.Errorf("Match(%q) = %v, want %v", text, got, want)
		}
	}
}
