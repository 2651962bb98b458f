package utils

import (
	"strings"
	"unicode"
)

// ContainsSpace reports whether s holds any whitespace rune.
func ContainsSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// IsValidTarget checks if s can be used as a target word.
// Blank strings and strings with inner whitespace never match a single token.
func IsValidTarget(s string) bool {
	if len(s) == 0 {
		return false
	}
	return !ContainsSpace(s)
}

// CleanTargets trims targets, drops invalid ones and removes duplicates.
func CleanTargets(targets []string) []string {
	cleaned := make([]string, 0, len(targets))
	for _, t := range targets {
		t = strings.TrimSpace(t)
		if IsValidTarget(t) {
			cleaned = append(cleaned, t)
		}
	}
	return Dedupe(cleaned)
}

// SplitList splits a comma separated flag value into trimmed items.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}
