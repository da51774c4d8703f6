package business

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizeName turns registry style ALL CAPS names into Title Case.
// Names that already contain lowercase letters are returned untouched.
func NormalizeName(name string) string {
	if name == "" || name != strings.ToUpper(name) {
		return name
	}
	words := strings.Split(strings.ToLower(name), " ")
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
