package rewrite

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TrailingPunct is the set of characters stripped from the end of a token
// before it is matched against the candidate set.
const TrailingPunct = ".,!?;:"

// Token is one whitespace-delimited piece of a sentence.
type Token struct {
	Raw         string
	Word        string // Raw minus its trailing punctuation run
	Trailing    string
	Capitalized bool
}

// ParseToken splits raw into its matchable word and trailing punctuation.
func ParseToken(raw string) Token {
	word := strings.TrimRight(raw, TrailingPunct)
	first, _ := utf8.DecodeRuneInString(raw)
	return Token{
		Raw:         raw,
		Word:        word,
		Trailing:    raw[len(word):],
		Capitalized: unicode.IsUpper(first),
	}
}

// Replace renders replacement in place of the token: the first rune takes
// the case of the token's first rune and the trailing punctuation is kept.
func (t Token) Replace(replacement string) string {
	first, _ := utf8.DecodeRuneInString(t.Raw)
	return matchCase(replacement, first) + t.Trailing
}

// matchCase sets the case of s's first rune to that of ref. Non-letter refs
// leave s untouched.
func matchCase(s string, ref rune) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	switch {
	case unicode.IsUpper(ref):
		r = unicode.ToUpper(r)
	case unicode.IsLower(ref):
		r = unicode.ToLower(r)
	default:
		return s
	}
	return string(r) + s[size:]
}
