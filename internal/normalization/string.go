package normalization

import (
	"strings"
)

// ParseInputString lower-cases and trims identifiers such as emails.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// CleanText trims s and collapses internal runs of whitespace to a single space.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
