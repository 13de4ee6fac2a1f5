package services

import (
	"strings"
	"time"
	"unicode"

	"github.com/custodia-labs/lexica-cli/internal/core/domain"
)

// applyRerank adjusts each hit's score downward by a bonus accumulated
// from term proximity, document recency, category match, and keyword
// density. The total bonus is scaled by the damping factor so
// re-ranking perturbs the base ranking without inverting it.
func (s *RetrieverService) applyRerank(hits []hit, keywords []string) {
	w := s.rerank
	now := time.Now()

	for i := range hits {
		text := strings.ToLower(hits[i].Text)

		bonus := proximityBonus(text, keywords, w)
		bonus += recencyBonus(hits[i].updatedAt, now, w)
		if domain.IsLegalCategory(hits[i].category) {
			bonus += w.CategoryBonus
		}
		bonus += densityBonus(text, keywords, w)

		hits[i].Score -= w.Damping * bonus
	}
}

// proximityBonus rewards query keyword pairs that co-occur within the
// proximity window, using the closest occurrence pair per keyword pair.
func proximityBonus(text string, keywords []string, w domain.RerankWeights) float64 {
	if len(keywords) < 2 || w.ProximityScale == 0 {
		return 0
	}

	positions := make([][]int, len(keywords))
	for i, kw := range keywords {
		positions[i] = wordPositions(text, kw)
	}

	bonus := 0.0
	for i := 0; i < len(keywords); i++ {
		for j := i + 1; j < len(keywords); j++ {
			distance := closestDistance(positions[i], positions[j])
			if distance >= 0 && distance < w.ProximityWindow {
				bonus += float64(w.ProximityWindow-distance) / w.ProximityScale
			}
		}
	}
	return bonus
}

// recencyBonus rewards documents modified within the recency horizon.
func recencyBonus(updatedAt, now time.Time, w domain.RerankWeights) float64 {
	if updatedAt.IsZero() || w.RecencyScale == 0 {
		return 0
	}
	ageDays := now.Sub(updatedAt).Hours() / 24
	if ageDays < 0 || ageDays >= float64(w.RecencyDays) {
		return 0
	}
	return (float64(w.RecencyDays) - ageDays) / w.RecencyScale
}

// densityBonus rewards keyword mass per 100 characters of chunk text.
func densityBonus(text string, keywords []string, w domain.RerankWeights) float64 {
	if len(text) == 0 || w.DensityScale == 0 {
		return 0
	}
	occurrences := 0
	for _, kw := range keywords {
		occurrences += len(wordPositions(text, kw))
	}
	per100 := float64(occurrences) * 100 / float64(len(text))
	return per100 / w.DensityScale
}

// wordPositions returns the byte offsets of whole-word occurrences of
// word in text. Both arguments must already be lowercase.
func wordPositions(text, word string) []int {
	if word == "" {
		return nil
	}
	var positions []int
	offset := 0
	for {
		idx := strings.Index(text[offset:], word)
		if idx < 0 {
			return positions
		}
		start := offset + idx
		end := start + len(word)
		if isWordBoundary(text, start-1) && isWordBoundary(text, end) {
			positions = append(positions, start)
		}
		offset = start + 1
	}
}

// isWordBoundary reports whether the byte at idx does not continue a
// word. Out-of-range indexes count as boundaries.
func isWordBoundary(text string, idx int) bool {
	if idx < 0 || idx >= len(text) {
		return true
	}
	r := rune(text[idx])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// closestDistance returns the smallest absolute distance between any
// position pair from the two sorted lists, or -1 when either is empty.
func closestDistance(a, b []int) int {
	if len(a) == 0 || len(b) == 0 {
		return -1
	}
	best := -1
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		d := a[i] - b[j]
		if d < 0 {
			d = -d
		}
		if best == -1 || d < best {
			best = d
		}
		if a[i] < b[j] {
			i++
		} else {
			j++
		}
	}
	return best
}
