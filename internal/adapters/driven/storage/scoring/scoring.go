// Package scoring implements the raw relevance scoring shared by the
// chunk index adapters: cosine distance for vectors and length-weighted
// whole-word occurrence counts for keywords. Normalisation and score
// inversion happen in the retriever, not here.
package scoring

import (
	"math"
	"strings"
	"unicode"
)

// CosineDistance returns 1 minus the cosine similarity of a and b, so
// 0 means identical direction. A zero-magnitude operand yields the
// maximum distance.
func CosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

// KeywordScore sums whole-word occurrences of each keyword weighted by
// keyword length. Matching is case-insensitive. A zero score means no
// keyword appears in the text.
func KeywordScore(text string, keywords []string) float64 {
	lower := strings.ToLower(text)
	score := 0.0
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		score += float64(CountWholeWord(lower, kw) * len(kw))
	}
	return score
}

// CountWholeWord counts whole-word occurrences of word in text. Both
// arguments must already be lowercase.
func CountWholeWord(text, word string) int {
	count := 0
	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return count
		}
		start := offset + idx
		end := start + len(word)
		if boundary(text, start-1) && boundary(text, end) {
			count++
		}
		offset = start + 1
	}
}

// boundary reports whether the byte at idx does not continue a word.
// Out-of-range indexes count as boundaries.
func boundary(text string, idx int) bool {
	if idx < 0 || idx >= len(text) {
		return true
	}
	r := rune(text[idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}
