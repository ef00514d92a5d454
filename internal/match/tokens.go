package match

import (
	"slices"
	"strings"
	"unicode"
)

// genericSuffixes are trailing tokens that rarely distinguish type names.
var genericSuffixes = []string{"id", "ids", "type", "kind", "error", "err"}

// Tokens splits a type or field name into lowercase words. Words break at
// separators, at lower-to-upper transitions, before the last capital of an
// acronym and between letters and digits:
//
//	"UserID"      -> [user id]
//	"HTTPHeader"  -> [http header]
//	"point_3d"    -> [point 3 d]
func Tokens(s string) []string {
	var (
		tokens []string
		word   []rune
	)

	flush := func() {
		if len(word) > 0 {
			tokens = append(tokens, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	runes := []rune(s)
	for i, r := range runes {
		if r == '_' || r == '-' || r == ' ' || r == '.' || r == ':' {
			flush()
			continue
		}

		if i > 0 && len(word) > 0 && boundary(runes[i-1], r, next(runes, i)) {
			flush()
		}

		word = append(word, r)
	}

	flush()

	return tokens
}

func next(runes []rune, i int) rune {
	if i+1 < len(runes) {
		return runes[i+1]
	}

	return 0
}

// boundary reports whether a word starts at cur.
func boundary(prev, cur, nxt rune) bool {
	switch {
	case unicode.IsDigit(prev) != unicode.IsDigit(cur):
		return true
	case unicode.IsLower(prev) && unicode.IsUpper(cur):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(cur) && unicode.IsLower(nxt):
		return true
	default:
		return false
	}
}

// Normalize folds a name to a comparison key: "user_id", "UserId" and
// "UserID" all become "userid".
func Normalize(s string) string {
	return strings.Join(Tokens(s), "")
}

// Stem is Normalize without a trailing generic word such as "Id" or
// "Type". A name made of the generic word alone is kept.
func Stem(s string) string {
	tokens := Tokens(s)
	if len(tokens) > 1 && slices.Contains(genericSuffixes, tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}

	return strings.Join(tokens, "")
}
