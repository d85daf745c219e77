// Package locality normalizes and compares locality names.
//
// Both the shelter countdown lookup and the home relevance check compare
// localities the same way: normalize both sides, then accept if either string
// contains the other.
package locality

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// byteOrderMark occasionally prefixes strings copied out of the feed
const byteOrderMark = "\ufeff"

// Normalize trims, composes (NFC) and case-folds s, collapsing inner whitespace
// runs to a single space.
func Normalize(s string) string {
	s = strings.TrimPrefix(s, byteOrderMark)
	s = norm.NFC.String(s)
	// cases.Caser is stateful, so a fresh one is used per call
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// Matches reports whether a contains b or b contains a after normalization.
// An empty name carries no location and never matches.
func Matches(a, b string) bool {
	return MatchesNormalized(Normalize(a), Normalize(b))
}

// MatchesAny reports whether name matches any of candidates.
func MatchesAny(name string, candidates []string) bool {
	n := Normalize(name)
	if n == "" {
		return false
	}
	for _, c := range candidates {
		if MatchesNormalized(n, Normalize(c)) {
			return true
		}
	}
	return false
}

// MatchesNormalized is Matches for names already passed through Normalize.
func MatchesNormalized(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
