// Package keyword matches trigger words against free text by whole words, so
// "rest" does not fire on "interesting" and "won" does not fire on "wonderful".
package keyword

import (
	"strings"
	"unicode"
)

// Words lowercases text and splits it on anything that is not a letter, a
// digit or an apostrophe. "won't" and "won’t" stay single words.
func Words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\'' && r != '’'
	})
}

// Set is a fixed list of keywords. A keyword matches a whole word; one ending
// in "*" matches any word starting with the rest; one containing a space
// matches that run of consecutive words.
type Set struct {
	exact    map[string]struct{}
	prefixes []string
	phrases  []string
}

// New builds a Set. Keywords are lowercased.
func New(keywords ...string) Set {
	s := Set{exact: make(map[string]struct{}, len(keywords))}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		switch {
		case kw == "":
		case strings.Contains(kw, " "):
			s.phrases = append(s.phrases, " "+strings.Join(strings.Fields(kw), " ")+" ")
		case strings.HasSuffix(kw, "*"):
			s.prefixes = append(s.prefixes, strings.TrimSuffix(kw, "*"))
		default:
			s.exact[kw] = struct{}{}
		}
	}
	return s
}

// Match reports whether any keyword occurs in text.
func (s Set) Match(text string) bool {
	return s.MatchWords(Words(text))
}

// MatchWords is Match over words already produced by Words.
func (s Set) MatchWords(words []string) bool {
	for _, w := range words {
		if _, ok := s.exact[w]; ok {
			return true
		}
		for _, p := range s.prefixes {
			if strings.HasPrefix(w, p) {
				return true
			}
		}
	}
	if len(s.phrases) == 0 {
		return false
	}
	joined := " " + strings.Join(words, " ") + " "
	for _, p := range s.phrases {
		if strings.Contains(joined, p) {
			return true
		}
	}
	return false
}
