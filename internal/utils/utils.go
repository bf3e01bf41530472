package utils

import "strings"

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// CollapseSpaces joins all whitespace runs into single spaces so multi-line
// payloads fit on one log line.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Preview prepares a payload for debug logging: collapsed to one line and truncated.
func Preview(s string, limit int) string {
	return TruncateForLog(CollapseSpaces(s), limit)
}
