// Package normalize holds the pure text canonicalization used on both sides
// of the matching pipeline: master registry rows at load time and discovered
// records at resolution time. Every function is total, so bad input yields an
// empty result rather than an error.
package normalize

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	multiSpaceRe = regexp.MustCompile(`\s{2,}`)
	stateTokenRe = regexp.MustCompile(`^([A-Za-z]{2})\b`)

	// Decompose, drop combining marks, recompose. Turns "Hôtel" into "Hotel"
	// so accented and plain spellings land on the same key.
	accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Name standardizes a property or city name into its matching key by:
//  1. Folding accented characters to their base form
//  2. Lower-casing
//  3. Dropping everything that is not a letter, digit, or space
//  4. Collapsing whitespace runs and trimming
//
// Name is idempotent: Name(Name(x)) == Name(x).
func Name(s string) string {
	if s == "" {
		return ""
	}

	if folded, _, err := transform.String(accentFolder, s); err == nil {
		s = folded
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}

	s = multiSpaceRe.ReplaceAllString(b.String(), " ")
	return strings.TrimSpace(s)
}

// CountryCode canonicalizes a country value. The common spellings of the
// United States collapse to "US"; any other non-empty value is returned
// upper-cased unchanged. Empty input yields "".
func CountryCode(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	up := strings.ToUpper(s)
	switch up {
	case "USA", "UNITED STATES", "US", "U.S.", "U.S.A.":
		return "US"
	}
	return up
}

// AddressParts splits a comma-separated postal address into its city, state
// and country components. The country is the last segment. When three or more
// segments are present the second-to-last is treated as a possible "ST ZIP"
// token: a leading 2-letter code becomes the state and the third-to-last
// segment the city, otherwise the second-to-last segment itself is the city.
// Two segments yield city and country only. Fewer than two non-empty segments
// yield all empty strings.
//
// This is a shape heuristic for "City, ST ZIP, Country" style strings, not an
// address grammar; unrecognized layouts degrade to empty components.
func AddressParts(address string) (city, state, country string) {
	var parts []string
	for _, p := range strings.Split(address, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return "", "", ""
	}

	country = parts[len(parts)-1]

	if len(parts) >= 3 {
		if m := stateTokenRe.FindStringSubmatch(parts[len(parts)-2]); m != nil {
			state = m[1]
			city = parts[len(parts)-3]
		} else {
			city = parts[len(parts)-2]
		}
		return city, state, country
	}

	city = parts[len(parts)-2]
	return city, state, country
}
