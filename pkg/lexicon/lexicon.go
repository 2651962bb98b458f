/*
Package lexicon talks to a Datamuse-compatible word lookup service.

A lookup is a single GET request against the service's /words endpoint:

	GET https://api.datamuse.com/words?ml=quick&max=5

The relation key (ml, rel_rhy, ...) picks what kind of related words come
back. The response is a JSON array of objects, each carrying at least a
"word" field:

	[{"word": "fast", "score": 3012}, {"word": "speedy", "score": 2990}]

Client wraps this with a request timeout, a bounded number of retries with
linear backoff, and optional client-side rate limiting. Failures are never
returned to callers: an exhausted word simply has no candidates.
*/
package lexicon

import (
	"context"
	"time"
)

// Relation is the query key sent to the lookup service.
type Relation string

const (
	// MeansLike asks for words with a similar meaning.
	MeansLike Relation = "ml"
	// Rhymes asks for perfect rhymes.
	Rhymes Relation = "rel_rhy"
	// Synonyms asks for strict synonyms.
	Synonyms Relation = "rel_syn"
	// SoundsLike asks for phonetically similar words.
	SoundsLike Relation = "sl"
)

// DefaultBaseURL is the public Datamuse endpoint.
const DefaultBaseURL = "https://api.datamuse.com/words"

// Valid reports whether r is a relation the service understands.
func (r Relation) Valid() bool {
	switch r {
	case MeansLike, Rhymes, Synonyms, SoundsLike:
		return true
	}
	return false
}

// Lookup fetches replacement candidates for one word.
// Implementations absorb failures and return an empty slice instead.
type Lookup interface {
	Fetch(ctx context.Context, word string) []string
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(ctx context.Context, word string) []string

// Fetch calls f.
func (f LookupFunc) Fetch(ctx context.Context, word string) []string { return f(ctx, word) }

// CandidateSet maps a target word to its replacement candidates.
// An entry never holds an empty list; words without candidates are absent.
type CandidateSet map[string][]string

// Add stores candidates for word, ignoring empty lists.
func (cs CandidateSet) Add(word string, candidates []string) {
	if len(candidates) == 0 {
		return
	}
	cs[word] = candidates
}

// Words returns the keys of the set in no particular order.
func (cs CandidateSet) Words() []string {
	words := make([]string, 0, len(cs))
	for w := range cs {
		words = append(words, w)
	}
	return words
}

// Config holds the lookup client settings.
type Config struct {
	BaseURL    string
	Relation   Relation
	MaxResults int
	Timeout    time.Duration
	Retries    int
	BaseDelay  time.Duration
	// RateLimit caps requests per second across all goroutines, 0 disables it.
	RateLimit float64
	Burst     int
}

// DefaultConfig returns the paraphrase settings: means-like, 5 results,
// 10s timeout, 2 retries and a 1s backoff step.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		Relation:   MeansLike,
		MaxResults: 5,
		Timeout:    10 * time.Second,
		Retries:    2,
		BaseDelay:  time.Second,
		RateLimit:  0,
		Burst:      1,
	}
}

// withDefaults fills zero fields from DefaultConfig.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Relation == "" {
		c.Relation = def.Relation
	}
	if c.MaxResults <= 0 {
		c.MaxResults = def.MaxResults
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
	return c
}
