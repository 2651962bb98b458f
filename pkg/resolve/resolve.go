// Package resolve turns a list of target words into a CandidateSet by
// fanning lookups out over a bounded worker pool.
package resolve

import (
	"context"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/cache"
	"github.com/bastiangx/wordswap/pkg/lexicon"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent lookups per Resolve call.
const DefaultWorkers = 4

// Resolver is the word batch resolver.
type Resolver struct {
	lookup  lexicon.Lookup
	workers int
	store   cache.Store
	logger  *log.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithWorkers sets the lookup concurrency. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithCache makes the resolver consult and fill store.
func WithCache(store cache.Store) Option {
	return func(r *Resolver) { r.store = store }
}

// WithLogger sets the resolver's logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver on top of lookup.
func New(lookup lexicon.Lookup, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:  lookup,
		workers: DefaultWorkers,
		logger:  logger.New("resolve"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches candidates for every unique word and waits for all
// lookups to finish. Words that end up with no candidates are left out.
func (r *Resolver) Resolve(ctx context.Context, words []string) lexicon.CandidateSet {
	unique := utils.Dedupe(words)
	set := make(lexicon.CandidateSet, len(unique))
	if len(unique) == 0 {
		return set
	}

	pending := unique[:0:0]
	for _, w := range unique {
		if r.store != nil {
			if cached, ok := r.store.Get(ctx, w); ok {
				set.Add(w, cached)
				continue
			}
		}
		pending = append(pending, w)
	}

	results := make([][]string, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, w := range pending {
		g.Go(func() error {
			results[i] = r.lookup.Fetch(gctx, w)
			return nil
		})
	}
	_ = g.Wait()

	for i, w := range pending {
		if len(results[i]) == 0 {
			r.logger.Debugf("No candidates for '%s'", w)
			continue
		}
		set.Add(w, results[i])
		if r.store != nil {
			r.store.Put(ctx, w, results[i])
		}
	}

	r.logger.Debug("Resolved batch", "words", len(unique), "fetched", len(pending), "resolved", len(set))
	return set
}
