package util

import "strings"

// SanitizePostgresText drops NUL bytes and invalid UTF-8, which postgres
// rejects in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// CollapseSpace trims s and replaces every run of whitespace by a single
// space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
