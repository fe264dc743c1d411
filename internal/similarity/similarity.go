package similarity

import "strings"

// normalizeCode prepares a code for comparison: lowercase, then drop every
// "x" and every "kh". Both are interchangeable in romanized product codes
// (e.g. "abx1" and "abkh1" name the same item), so they must not contribute
// to the edit distance.
func normalizeCode(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "x", "")
	s = strings.ReplaceAll(s, "kh", "")
	return s
}

// Score computes a 0-100 confidence score for how close two codes are.
// Codes that normalize to the same string score 100; otherwise the score
// is derived from the Levenshtein distance between the normalized forms,
// scaled by the longer length.
func Score(a, b string) float64 {
	na := normalizeCode(a)
	nb := normalizeCode(b)

	if na == nb {
		return 100
	}
	if na == "" && nb == "" {
		return 0
	}

	maxLen := len(na)
	if len(nb) > maxLen {
		maxLen = len(nb)
	}
	if maxLen == 0 {
		return 100
	}

	dist := levenshteinDistance(na, nb)
	score := (1 - float64(dist)/float64(maxLen)) * 100
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// levenshteinDistance computes the edit distance between two strings with
// unit cost for insert, delete and substitute.
func levenshteinDistance(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}

	// Two rows instead of the full matrix
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)

	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
