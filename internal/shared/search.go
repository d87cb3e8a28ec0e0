package shared

import "strings"

// FilterRows keeps the items where any search field contains term,
// ignoring case. A blank term returns items unchanged.
func FilterRows[T any](items []T, term string, fields func(T) []string) []T {
	needle := strings.ToLower(strings.TrimSpace(term))
	if needle == "" || fields == nil {
		return items
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if MatchesAny(needle, fields(item)) {
			out = append(out, item)
		}
	}
	return out
}

// MatchesAny reports whether a lower-cased needle occurs in any haystack.
func MatchesAny(needle string, haystacks []string) bool {
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}
