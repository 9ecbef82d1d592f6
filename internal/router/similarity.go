package router

// similarity returns 2*M/T where M counts characters in the matching blocks
// found by repeatedly taking the longest common substring, and T is the
// combined length. Two empty strings are identical.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return 2 * float64(matchingRunes(ra, rb)) / float64(total)
}

func matchingRunes(a, b []rune) int {
	i, j, k := longestMatch(a, b)
	if k == 0 {
		return 0
	}
	return k + matchingRunes(a[:i], b[:j]) + matchingRunes(a[i+k:], b[j+k:])
}

// longestMatch finds the longest common substring, earliest in a then in b
func longestMatch(a, b []rune) (int, int, int) {
	bestI, bestJ, bestK := 0, 0, 0
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > bestK {
					bestI, bestJ, bestK = i-curr[j], j-curr[j], curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return bestI, bestJ, bestK
}
