package vectorizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// minTokenLen is the shortest token kept, in runes.
const minTokenLen = 2

// tokenizer splits free text into lowercase word tokens.
type tokenizer struct {
	stripAccents bool
}

// tokenize cleans, lowercases and optionally strips accents from text, then
// returns every run of word characters at least minTokenLen runes long.
func (t tokenizer) tokenize(text string) []string {
	text = cleanText(text)
	text = strings.ToLower(text)
	if t.stripAccents {
		text = stripAccents(text)
	} else {
		text = norm.NFC.String(text)
	}

	var tokens []string
	var current strings.Builder
	n := 0
	flush := func() {
		if n >= minTokenLen {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		n = 0
	}
	for _, r := range text {
		if isWordChar(r) {
			current.WriteRune(r)
			n++
			continue
		}
		flush()
	}
	flush()
	return tokens
}

// cleanText removes control characters and replaces whitespace with spaces.
func cleanText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == 0 || r == 0xFFFD || isControl(r) {
			continue
		}
		if unicode.IsSpace(r) {
			b.WriteRune(' ')
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// stripAccents removes combining marks after NFKD decomposition.
func stripAccents(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range norm.NFKD.String(text) {
		if unicode.In(r, unicode.Mn) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	if r == '\t' || r == '\n' || r == '\r' {
		return false
	}
	return unicode.IsControl(r)
}

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}
