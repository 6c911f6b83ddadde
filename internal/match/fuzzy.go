// Package match provides best effort fuzzy string matching for channel codes
// and movie titles.
package match

import (
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
)

// DefaultCutoff is the low similarity floor used for channel codes and title
// suggestions. Anything below it is treated as unrelated.
const DefaultCutoff = 0.1

var folder = cases.Fold()

// Ratio returns the sequence similarity of a and b in [0, 1], compared
// character by character after case folding.
func Ratio(a, b string) float64 {
	m := difflib.NewMatcher(runes(fold(a)), runes(fold(b)))
	return m.Ratio()
}

// Closest returns the candidate most similar to word whose ratio reaches
// cutoff. Equal ratios are decided by Jaro-Winkler similarity and then by
// candidate order.
func Closest(word string, candidates []string, cutoff float64) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}

	folded := fold(word)
	target := runes(folded)
	m := difflib.NewMatcher(nil, target)

	best := ""
	bestScore := -1.0
	bestTie := -1.0
	found := false

	for _, candidate := range candidates {
		fc := fold(candidate)
		m.SetSeq1(runes(fc))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}

		tie := matchr.JaroWinkler(folded, fc, false)
		if score > bestScore || (score == bestScore && tie > bestTie) {
			best, bestScore, bestTie, found = candidate, score, tie, true
		}
	}

	return best, found
}

func fold(s string) string {
	return folder.String(strings.TrimSpace(s))
}

func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
