// internal/matching/similarity.go

package matching

import (
	"strings"
	"time"
)

// The five per-attribute similarity functions. Each is pure, total and
// symmetric, and returns a score in [0,1].

// DestinationMatch scores 1.0 when the destinations are equal under
// case-insensitive, whitespace-trimmed comparison, else 0.0.
func DestinationMatch(a, b string) float64 {
	if strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b)) {
		return 1.0
	}
	return 0.0
}

// DateOverlap scores the overlap between two trips as a fraction of the
// shorter trip's length. Days are counted with an inclusive-exclusive
// convention, so a trip from the 1st to the 10th spans nine days. Two
// single-day trips score 1.0 only when they coincide.
func DateOverlap(startA, endA, startB, endB time.Time) float64 {
	overlap := days(laterOf(startA, startB), earlierOf(endA, endB))
	span := days(startA, endA)
	if other := days(startB, endB); other < span {
		span = other
	}

	if span <= 0 {
		if days(startA, endA) == 0 && days(startB, endB) == 0 && startA.Equal(startB) {
			return 1.0
		}
		return 0.0
	}

	if overlap <= 0 {
		return 0.0
	}
	return clamp01(overlap / span)
}

// BudgetSimilarity scores two budget intervals by overlap length over
// union length. Identical degenerate ranges score 1.0; differing
// degenerate ranges score 0.0.
func BudgetSimilarity(minA, maxA, minB, maxB float64) float64 {
	overlap := earlierF(maxA, maxB) - laterF(minA, minB)
	union := laterF(maxA, maxB) - earlierF(minA, minB)

	if union <= 0 {
		if minA == minB {
			return 1.0
		}
		return 0.0
	}

	if overlap <= 0 {
		return 0.0
	}
	return clamp01(overlap / union)
}

// InterestSimilarity is the Jaccard index over two interest tag sets.
// Two empty sets carry no conflicting signal and score 1.0; exactly one
// empty set scores 0.0. Tags are assumed normalized at ingestion.
func InterestSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	set := make(map[string]bool, len(a))
	for _, tag := range a {
		set[tag] = true
	}

	intersection := 0
	setB := make(map[string]bool, len(b))
	for _, tag := range b {
		if setB[tag] {
			continue
		}
		setB[tag] = true
		if set[tag] {
			intersection++
		}
	}

	union := len(set) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// TravelStyleMatch scores 1.0 for identical categories, else 0.0.
// No partial credit across categories.
func TravelStyleMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// Helpers

func days(from, to time.Time) float64 {
	return to.Sub(from).Hours() / 24
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func laterF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func earlierF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
