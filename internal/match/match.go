// Package match provides fuzzy filename matching for ROM verification.
package match

import (
	"regexp"
	"strings"

	unorm "golang.org/x/text/unicode/norm"
)

var space = regexp.MustCompile(`\s+`)

// NameKey normalizes a name for comparison: Unicode NFC, lowercased,
// whitespace collapsed.
func NameKey(s string) string {
	s = unorm.NFC.String(s)
	s = strings.ToLower(strings.TrimSpace(s))
	// Re-normalize after case conversion (lowercase may create new combining sequences)
	s = unorm.NFC.String(s)
	s = space.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Similarity returns a score in [0,1]: 1 for identical normalized names,
// scaled down by edit distance relative to the longer name.
func Similarity(a, b string) float64 {
	ka, kb := NameKey(a), NameKey(b)

	if ka == kb {
		return 1.0
	}

	maxLen := len([]rune(ka))
	if l := len([]rune(kb)); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1.0
	}

	dist := levenshtein(ka, kb)
	score := 1.0 - float64(dist)/float64(maxLen)
	if score < 0 {
		return 0
	}
	return score
}

// Candidate is a named candidate for fuzzy matching. Score is filled in by
// BestMatch.
type Candidate struct {
	// ID identifies the candidate to the caller.
	ID int64
	// Names are the alternative names compared against (e.g. ROM filename
	// stem and title). The best score across all names wins.
	Names []string
}

// BestMatch returns the candidate most similar to name and its score.
// ok is false when candidates is empty.
func BestMatch(name string, candidates []Candidate) (best Candidate, score float64, ok bool) {
	for _, c := range candidates {
		for _, n := range c.Names {
			if s := Similarity(name, n); s > score {
				score = s
				best = c
				ok = true
			}
		}
	}
	// An empty candidate list or all-empty names never matched anything.
	if !ok && len(candidates) > 0 {
		best = candidates[0]
		ok = true
	}
	return best, score, ok
}

// levenshtein computes the edit distance between two strings.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	lenA, lenB := len(ra), len(rb)

	if lenA == 0 {
		return lenB
	}
	if lenB == 0 {
		return lenA
	}

	dp := make([][]int, lenA+1)
	for i := range dp {
		dp[i] = make([]int, lenB+1)
		dp[i][0] = i
	}
	for j := 0; j <= lenB; j++ {
		dp[0][j] = j
	}

	for i := 1; i <= lenA; i++ {
		for j := 1; j <= lenB; j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			dp[i][j] = min3(
				dp[i-1][j]+1,      // deletion
				dp[i][j-1]+1,      // insertion
				dp[i-1][j-1]+cost, // substitution
			)
		}
	}
	return dp[lenA][lenB]
}

func min3(x, y, z int) int {
	if x < y {
		if x < z {
			return x
		}
		return z
	}
	if y < z {
		return y
	}
	return z
}
