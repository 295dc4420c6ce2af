// Package validators holds the pure slot-value predicates used by the
// application-flow engine. No side effects; callers decide how a failed
// check maps to dialog behavior.
package validators

import (
	"strings"

	"github.com/araddon/dateparse"
)

// yesNoWords are the reference answers for confirmation-style slots.
var yesNoWords = []string{"yes", "no", "yep", "nope"}

const yesNoThreshold = 0.7

// ValidDate reports whether text parses as a date in any common layout.
func ValidDate(text string) bool {
	_, err := dateparse.ParseAny(strings.TrimSpace(text))
	return err == nil
}

// ValidYesNo reports whether text is a recognizable yes/no answer: an exact
// case-insensitive match against the reference words, or close enough to one
// of them (similarity >= 0.7) to tolerate typos like "yess".
func ValidYesNo(text string) bool {
	v := strings.ToLower(strings.TrimSpace(text))
	if v == "" {
		return false
	}
	for _, w := range yesNoWords {
		if v == w {
			return true
		}
	}
	for _, w := range yesNoWords {
		if Similarity(v, w) >= yesNoThreshold {
			return true
		}
	}
	return false
}

// ValidCreditScore reports whether n is a plausible credit score (301-850).
func ValidCreditScore(n int) bool {
	return n > 300 && n < 851
}

// ValidZeroOrGreater reports whether f is non-negative.
func ValidZeroOrGreater(f float64) bool {
	return f >= 0
}

// Similarity is a longest-common-subsequence ratio between two strings:
// 2*LCS(a,b) / (len(a)+len(b)). Symmetric, in [0,1]. Comparison is
// case-insensitive on bytes, which is enough for short English answers.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}

	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}
