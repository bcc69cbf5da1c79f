package match

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// TokenSetRatio scores the similarity of two normalized name keys on a 0-100
// scale, treating each as a bag of whitespace-separated tokens. The shared
// tokens are compared against each side's shared+exclusive combination and
// the combinations against each other; the best pairwise edit similarity
// wins. Word order is irrelevant, and a name whose tokens are a subset of the
// other's scores 100. Symmetric in its arguments.
func TokenSetRatio(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}

	setA := tokenSet(a)
	setB := tokenSet(b)

	var shared, onlyA, onlyB []string
	for tok := range setA {
		if setB[tok] {
			shared = append(shared, tok)
		} else {
			onlyA = append(onlyA, tok)
		}
	}
	for tok := range setB {
		if !setA[tok] {
			onlyB = append(onlyB, tok)
		}
	}
	sort.Strings(shared)
	sort.Strings(onlyA)
	sort.Strings(onlyB)

	base := strings.Join(shared, " ")
	combinedA := joinTokens(base, onlyA)
	combinedB := joinTokens(base, onlyB)

	score := ratio(base, combinedA)
	if s := ratio(base, combinedB); s > score {
		score = s
	}
	if s := ratio(combinedA, combinedB); s > score {
		score = s
	}
	return score
}

// ratio is the plain edit similarity of two strings on a 0-100 scale:
// Levenshtein distance normalized by the longer length.
func ratio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 100
	}
	if a == "" || b == "" {
		return 0
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 100 * (1 - float64(dist)/float64(longest))
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(s) {
		set[tok] = true
	}
	return set
}

func joinTokens(base string, extra []string) string {
	if len(extra) == 0 {
		return base
	}
	joined := strings.Join(extra, " ")
	if base == "" {
		return joined
	}
	return base + " " + joined
}
