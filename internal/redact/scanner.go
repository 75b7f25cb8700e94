package redact

import (
	"regexp"
	"sort"
)

// PatternType identifies the category of sensitive data.
type PatternType string

const (
	PatternEmail PatternType = "EMAIL"
	PatternPhone PatternType = "PHONE"
	PatternSSN   PatternType = "SSN"
)

// Match is a single occurrence of sensitive data in text.
type Match struct {
	Type  PatternType
	Value string
	Start int
	End   int
}

// Compiled patterns for sensitive data detection.
var (
	// Email addresses.
	emailRe = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

	// Phone numbers in common delimited formats: 555-123-4567, 555.123.4567,
	// or ten contiguous digits.
	phoneRe = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)

	// Government-ID-like numbers: 3-2-4 digit groups separated by hyphens.
	ssnRe = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)
)

// Scan finds all sensitive patterns in text and returns matches sorted by
// position (earliest first). The SSN pattern is matched before the phone
// pattern so a 3-2-4 digit group is never half-consumed as a phone number;
// later matches overlapping an earlier one are discarded.
func Scan(text string) []Match {
	if text == "" {
		return nil
	}

	var matches []Match
	taken := make([]bool, len(text))

	add := func(typ PatternType, locs [][]int) {
		for _, loc := range locs {
			overlap := false
			for i := loc[0]; i < loc[1]; i++ {
				if taken[i] {
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			for i := loc[0]; i < loc[1]; i++ {
				taken[i] = true
			}
			matches = append(matches, Match{
				Type:  typ,
				Value: text[loc[0]:loc[1]],
				Start: loc[0],
				End:   loc[1],
			})
		}
	}

	add(PatternEmail, emailRe.FindAllStringIndex(text, -1))
	add(PatternSSN, ssnRe.FindAllStringIndex(text, -1))
	add(PatternPhone, phoneRe.FindAllStringIndex(text, -1))

	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Start < matches[j].Start
	})

	return matches
}
