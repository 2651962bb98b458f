package utils

import (
	"strings"
)

// WordFilter drops repeated words while keeping first-seen order.
// Comparison is case-sensitive unless fold is set.
type WordFilter struct {
	seenWords map[string]bool
	fold      bool
}

// NewWordFilter creates an empty filter.
func NewWordFilter(fold bool) *WordFilter {
	return &WordFilter{
		seenWords: make(map[string]bool),
		fold:      fold,
	}
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
// Returns true if the word should be included, false if it's a duplicate
func (f *WordFilter) ShouldInclude(word string) bool {
	key := word
	if f.fold {
		key = strings.ToLower(word)
	}
	if f.seenWords[key] {
		return false
	}
	f.seenWords[key] = true
	return true
}

// Dedupe returns words without case-sensitive duplicates, in first-seen order.
func Dedupe(words []string) []string {
	filter := NewWordFilter(false)
	unique := make([]string, 0, len(words))
	for _, w := range words {
		if filter.ShouldInclude(w) {
			unique = append(unique, w)
		}
	}
	return unique
}
