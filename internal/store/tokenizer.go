package store

import (
	"strings"
	"unicode"
)

// Tokenize turns raw text into index terms. It is a pure function: the
// output depends only on the input text, never on index state.
//
// Policy: text is lowercased and punctuation acts as a separator. Runs of
// letters and digits become word tokens, except that CJK characters are
// emitted one rune per token because those scripts carry no whitespace word
// boundaries (the original deployment served Chinese-language service
// documents; a proper segmenter can be substituted without changing any
// contract here).
//
// The result is never nil and never contains empty tokens. Re-tokenizing
// the output joined by spaces yields the same token multiset.
func Tokenize(text string) []string {
	tokens := []string{}
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case isCJK(r):
			flush()
			tokens = append(tokens, string(unicode.ToLower(r)))
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			current.WriteRune(unicode.ToLower(r))
		default:
			// Whitespace, punctuation, and symbols all terminate a token.
			flush()
		}
	}
	flush()

	return tokens
}

// isCJK reports whether r belongs to a script without whitespace word
// boundaries: Han, Hiragana, Katakana, or Hangul.
func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// TermFrequencies counts occurrences of each token.
func TermFrequencies(tokens []string) map[string]int {
	tf := make(map[string]int, len(tokens))
	for _, t := range tokens {
		tf[t]++
	}
	return tf
}
