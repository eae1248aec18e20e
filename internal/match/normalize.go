package match

import (
	"strings"
	"unicode"

	"slicetrait/descriptor"
)

// NormalizeIdent reduces a container name to a comparison key:
// the namespace or package qualifier is dropped, the remaining name is split
// into words and the words are lower-cased and joined.
//
//	"blaze::DynamicTensor"        -> "dynamictensor"
//	"example.com/containers.Dense2D" -> "dense2d"
//	"dynamic_tensor"              -> "dynamictensor"
func NormalizeIdent(s string) string {
	return strings.Join(TokenizeIdent(s), "")
}

// TokenizeIdent splits the unqualified part of a name into lower-case words
// at separators and case transitions. Acronyms stay together:
// "DTensTransposer" gives ["d", "tens", "transposer"] and "XMLTensor" gives
// ["xml", "tensor"].
func TokenizeIdent(s string) []string {
	runes := []rune(descriptor.BaseName(s))

	var (
		words []string
		start = -1
	)

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, strings.ToLower(string(runes[start:end])))
		}

		start = -1
	}

	for i, r := range runes {
		if isSeparator(r) {
			flush(i)
			continue
		}

		if start >= 0 && wordBoundary(runes, i) {
			flush(i)
		}

		if start < 0 {
			start = i
		}
	}

	flush(len(runes))

	return words
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == ':' || r == '.'
}

// wordBoundary reports whether a new word starts at runes[i], given that
// runes[i-1] belongs to the current word.
func wordBoundary(runes []rune, i int) bool {
	r, prev := runes[i], runes[i-1]
	if !unicode.IsUpper(r) {
		return false
	}

	if !unicode.IsUpper(prev) {
		return true
	}

	// Last capital of an acronym starts the next word: "XMLTensor".
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
