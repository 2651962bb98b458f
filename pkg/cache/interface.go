// Package cache keeps lookup results around between resolution scopes so a
// word already resolved in one paragraph is not fetched again for the next.
package cache

import "context"

// Store holds candidate lists keyed by lookup word.
// Implementations must be safe for concurrent use.
type Store interface {
	// Get returns the cached candidates for word, if any.
	Get(ctx context.Context, word string) ([]string, bool)

	// Put stores candidates for word. Empty lists are not stored, so a word
	// whose lookup failed is fetched again next time.
	Put(ctx context.Context, word string, candidates []string)

	// Stats returns counters about the store.
	Stats() map[string]int
}
