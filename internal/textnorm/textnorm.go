// Package textnorm canonicalizes month names, zone markers and time strings
// found in prayer-time PDFs and in user input.
package textnorm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"acju-prayer-times/internal/config"
)

var (
	zonePattern  = regexp.MustCompile(`(?i)zone:\s*(\d+)`)
	digitPattern = regexp.MustCompile(`\d+`)
)

// Normalizer resolves month references against a fixed pattern table.
type Normalizer struct {
	patterns []config.MonthPattern
	names    map[string]string
}

// New creates a Normalizer over the given month table.
func New(patterns []config.MonthPattern, names map[string]string) *Normalizer {
	return &Normalizer{patterns: patterns, names: names}
}

// Default returns a Normalizer over the built-in English month tables.
func Default() *Normalizer {
	return New(config.MonthPatterns, config.MonthNames)
}

// ExtractZone returns the first "Zone: <digits>" number in text, zero-padded
// to two characters.
func ExtractZone(text string) (string, bool) {
	m := zonePattern.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return padTwo(m[1]), true
}

// ExtractMonth returns the two-digit code of the first month pattern that
// matches anywhere in text.
func (n *Normalizer) ExtractMonth(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, p := range n.patterns {
		if p.Pattern.MatchString(lower) {
			return p.Code, true
		}
	}
	return "", false
}

// NormalizeMonth turns user input such as "3", "03", "mar" or "March" into
// the display name "March".
func (n *Normalizer) NormalizeMonth(input string) (string, bool) {
	text := strings.ToLower(strings.TrimSpace(input))
	if text == "" {
		return "", false
	}
	if isDigits(text) {
		name, ok := n.names[padTwo(text)]
		return name, ok
	}
	code, ok := n.ExtractMonth(text)
	if !ok {
		return "", false
	}
	name, ok := n.names[code]
	return name, ok
}

// CleanTime trims a raw cell value and collapses inner whitespace.
func CleanTime(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// ParseDate builds a MM-DD key from the first number in a date cell and the
// two-digit month code. Cells without a day between 1 and 31 are rejected.
func ParseDate(cell, month string) (string, bool) {
	if len(month) != 2 || !isDigits(month) {
		return "", false
	}
	m := digitPattern.FindString(cell)
	if m == "" {
		return "", false
	}
	day, err := strconv.Atoi(m)
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%s-%02d", month, day), true
}

func padTwo(digits string) string {
	if len(digits) < 2 {
		return strings.Repeat("0", 2-len(digits)) + digits
	}
	return digits
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
