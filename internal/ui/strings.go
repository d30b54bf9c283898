package ui

import "strings"

// truncate shortens a string to the given limit, adding ellipsis if needed.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// truncateMiddle shortens a string by removing characters from the middle,
// preserving both the beginning and end. For paths, it preserves file extensions.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || value == "" {
		return value
	}
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	const ellipsis = "…"
	if limit <= 3 {
		return string(runes[:limit])
	}

	lastDot := strings.LastIndex(value, ".")
	lastSlash := strings.LastIndex(value, "/")
	if lastSlash >= 0 && lastDot > lastSlash {
		ext := []rune(value[lastDot:])
		base := []rune(value[:lastDot])
		// Only preserve if extension is reasonable length
		if len(ext) < 10 && len(ext) < limit/2 {
			baseLimit := limit - len(ext) - 1
			prefix := baseLimit / 2
			suffix := baseLimit - prefix
			return string(base[:prefix]) + ellipsis + string(base[len(base)-suffix:]) + string(ext)
		}
	}

	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix
	return string(runes[:prefix]) + ellipsis + string(runes[len(runes)-suffix:])
}

// oneLine collapses whitespace runs, newlines included, to single spaces.
func oneLine(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// ternary returns a if cond is true, otherwise b.
func ternary(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}
