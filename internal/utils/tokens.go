package utils

import "sort"

// charsPerToken is the dry-run ratio, shared by every provider.
const charsPerToken = 4

// CountTokens estimates prompt tokens from the rune count.
// Non-empty text never rounds down to zero.
func CountTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return max(1, n/charsPerToken)
}

// TokenCount is the estimate for one labeled part of a prompt.
type TokenCount struct {
	Label  string
	Tokens int
}

// TokenBreakdown estimates each part, ordered by label so dry-run output is stable.
func TokenBreakdown(parts map[string]string) []TokenCount {
	out := make([]TokenCount, 0, len(parts))
	for label, text := range parts {
		out = append(out, TokenCount{Label: label, Tokens: CountTokens(text)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}
