// Package stem normalizes text for searching, so different "styles" of the
// same word still match.
package stem

import (
	"strings"

	"github.com/reiver/go-porterstemmer"
)

// StemLine stems every word of value, dropping common punctuation.
// Stemming also lowercases.
func StemLine(value string) string {
	words := strings.Fields(value)
	b := strings.Builder{}
	b.Grow(len(value))
	for i, word := range words {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(porterstemmer.StemString(strings.TrimFunc(word, isPunctuation)))
	}

	return b.String()
}

// StemLineWords is the query form of StemLine, returning the distinct
// stemmed words of value.
func StemLineWords(value string) []string {
	seen := map[string]struct{}{}
	words := []string{}
	for _, word := range strings.Fields(StemLine(value)) {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}

	return words
}

func isPunctuation(r rune) bool {
	switch r {
	case ',', '.', '!', '?', '"', '\'', ':', ';', '(', ')':
		return true
	}
	return false
}
