// Package redact scrubs sensitive values from user-supplied text before it
// crosses the model boundary. Detection is pattern-based and intentionally
// narrow: emails, delimited phone numbers, and government-ID-like numbers.
// Anything else passes through unchanged.
package redact

import "strings"

// placeholders maps each pattern type to its replacement token. Placeholders
// contain no digits and no "@", so redacted output never re-matches a
// pattern — Redact is idempotent on its own output.
var placeholders = map[PatternType]string{
	PatternEmail: "[REDACTED_EMAIL]",
	PatternPhone: "[REDACTED_PHONE]",
	PatternSSN:   "[REDACTED_SSN]",
}

// Placeholder returns the replacement token for a pattern type.
func Placeholder(typ PatternType) string {
	return placeholders[typ]
}

// Redact replaces every sensitive match in text with its class placeholder.
// detected is true iff at least one pattern matched. Pure and deterministic;
// empty input is returned unchanged.
func Redact(text string) (redacted string, detected bool) {
	matches := Scan(text)
	if len(matches) == 0 {
		return text, false
	}

	var b strings.Builder
	b.Grow(len(text))
	prev := 0
	for _, m := range matches {
		b.WriteString(text[prev:m.Start])
		b.WriteString(placeholders[m.Type])
		prev = m.End
	}
	b.WriteString(text[prev:])

	return b.String(), true
}
