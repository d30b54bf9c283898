// Package columns resolves user-typed column names against the dynamic
// columns of a catalog and tracks which of them are shown.
package columns

import "strings"

// maxDistance bounds the fuzzy fallback of Resolve.
const maxDistance = 3

// Resolve maps a typed name to a column in available, or returns false.
// Matching tries exact, case-insensitive exact, prefix, substring and then
// edit distance, in that order. Prefix and substring matches take the first
// column in iteration order; fuzzy matching keeps the first column with the
// smallest distance.
func Resolve(query string, available []string) (string, bool) {
	query = strings.TrimSpace(query)
	if query == "" || len(available) == 0 {
		return "", false
	}
	for _, column := range available {
		if column == query {
			return column, true
		}
	}
	for _, column := range available {
		if strings.EqualFold(column, query) {
			return column, true
		}
	}

	lowered := strings.ToLower(query)
	var prefix, substring, fuzzy string
	best := maxDistance + 1
	for _, column := range available {
		lc := strings.ToLower(column)
		if prefix == "" && strings.HasPrefix(lc, lowered) {
			prefix = column
		}
		if substring == "" && strings.Contains(lc, lowered) {
			substring = column
		}
		if d := levenshtein(lc, lowered); d < best {
			best, fuzzy = d, column
		}
	}
	switch {
	case prefix != "":
		return prefix, true
	case substring != "":
		return substring, true
	case fuzzy != "":
		return fuzzy, true
	}
	return "", false
}

// levenshtein is the byte-wise edit distance between a and b.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 0; i < len(a); i++ {
		cur[0] = i + 1
		for j := 0; j < len(b); j++ {
			cost := 1
			if a[i] == b[j] {
				cost = 0
			}
			cur[j+1] = min(cur[j]+1, prev[j+1]+1, prev[j]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
