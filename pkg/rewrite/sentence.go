/*
Package rewrite rebuilds sentences and paragraphs around substituted words.

A sentence is split on whitespace. Each token has its trailing punctuation
(see TrailingPunct) stripped before it is looked up in the candidate set:

	"The quick brown fox jumps."  +  {quick: [speedy], fox: [wolf]}
	-> "The speedy brown wolf jumps."

Matched tokens get a random candidate whose first letter follows the case of
the original token, with the original trailing punctuation re-attached.
Unmatched tokens are emitted verbatim. Tokens are re-joined with single
spaces, so irregular whitespace inside a rewritten sentence collapses.

Matching folds case by default, so "Fox" matches the target "fox" and turns
into "Wolf". WithCaseSensitive(true) switches to exact matching.

Paragraph handling depends on the Mode: paraphrase mode treats '.' as the
sentence delimiter, rhyme mode treats every line as a sentence.
*/
package rewrite

import (
	"sort"
	"strings"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/lexicon"
	"golang.org/x/text/cases"
)

// SentenceRewriter substitutes target tokens in one sentence.
// It holds no per-call state and can be shared between goroutines.
type SentenceRewriter struct {
	picker        Picker
	caseSensitive bool
	consistent    bool
}

// Option configures a SentenceRewriter.
type Option func(*SentenceRewriter)

// WithPicker sets the random source used to choose among candidates.
func WithPicker(p Picker) Option {
	return func(sr *SentenceRewriter) {
		if p != nil {
			sr.picker = p
		}
	}
}

// WithCaseSensitive switches matching to exact, case-sensitive comparison.
func WithCaseSensitive(on bool) Option {
	return func(sr *SentenceRewriter) { sr.caseSensitive = on }
}

// WithConsistent makes every occurrence of a target within one Rewrite call
// receive the same replacement.
func WithConsistent(on bool) Option {
	return func(sr *SentenceRewriter) { sr.consistent = on }
}

// NewSentenceRewriter creates a rewriter with a randomly seeded picker and
// case-folded matching.
func NewSentenceRewriter(opts ...Option) *SentenceRewriter {
	sr := &SentenceRewriter{picker: RandomPicker()}
	for _, opt := range opts {
		opt(sr)
	}
	return sr
}

// CaseSensitive reports the matching policy.
func (sr *SentenceRewriter) CaseSensitive() bool { return sr.caseSensitive }

// Rewrite returns sentence with every token found in candidates replaced.
// An empty candidate set returns sentence unchanged.
func (sr *SentenceRewriter) Rewrite(sentence string, candidates lexicon.CandidateSet) string {
	if len(candidates) == 0 {
		return sentence
	}
	m := newMatcher(candidates, sr.caseSensitive)

	var chosen map[string]string
	if sr.consistent {
		chosen = make(map[string]string)
	}

	fields := strings.Fields(sentence)
	out := make([]string, len(fields))
	for i, raw := range fields {
		tok := ParseToken(raw)
		key, options, ok := m.lookup(tok.Word)
		if !ok {
			out[i] = raw
			continue
		}

		pick, seen := chosen[key]
		if !seen {
			pick = options[sr.picker.IntN(len(options))]
			if chosen != nil {
				chosen[key] = pick
			}
		}
		if pick == "" {
			out[i] = raw
			continue
		}
		out[i] = tok.Replace(pick)
	}
	return strings.Join(out, " ")
}

// presentTargets returns the targets that occur as a token in any of texts
// under the rewriter's matching policy, keeping the order of targets.
func (sr *SentenceRewriter) presentTargets(texts []string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}
	words := make(map[string]bool)
	for _, text := range texts {
		for _, raw := range strings.Fields(text) {
			w := ParseToken(raw).Word
			if w == "" {
				continue
			}
			if sr.caseSensitive {
				words[w] = true
			} else {
				words[fold(w)] = true
			}
		}
	}

	present := make([]string, 0, len(targets))
	for _, t := range targets {
		key := t
		if !sr.caseSensitive {
			key = fold(t)
		}
		if words[key] {
			present = append(present, t)
		}
	}
	return present
}

// matcher resolves a stripped token to the candidate list it should use.
type matcher struct {
	exact  lexicon.CandidateSet
	folded map[string][]string
}

func newMatcher(cs lexicon.CandidateSet, caseSensitive bool) matcher {
	m := matcher{exact: cs}
	if caseSensitive {
		return m
	}

	keys := cs.Words()
	sort.Strings(keys)
	m.folded = make(map[string][]string, len(keys))
	for _, k := range keys {
		fk := fold(k)
		m.folded[fk] = append(m.folded[fk], cs[k]...)
	}
	for fk, options := range m.folded {
		m.folded[fk] = utils.Dedupe(options)
	}
	return m
}

// lookup prefers an exact key over a case-folded one.
func (m matcher) lookup(word string) (string, []string, bool) {
	if word == "" {
		return "", nil, false
	}
	if options, ok := m.exact[word]; ok && len(options) > 0 {
		return word, options, true
	}
	if m.folded == nil {
		return "", nil, false
	}
	fk := fold(word)
	options, ok := m.folded[fk]
	if !ok || len(options) == 0 {
		return "", nil, false
	}
	return fk, options, true
}

func fold(s string) string {
	return cases.Fold().String(s)
}
