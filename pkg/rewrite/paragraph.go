package rewrite

import (
	"context"
	"fmt"
	"strings"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/lexicon"
)

// Mode selects how paragraphs break into sentences and which lookup
// relation fits the substitution.
type Mode string

const (
	// Paraphrase splits sentences on '.' and swaps words for similar meanings.
	Paraphrase Mode = "paraphrase"
	// Rhyme treats every line as a sentence and swaps words for rhymes.
	Rhyme Mode = "rhyme"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case Paraphrase, Rhyme:
		return m, nil
	case "":
		return Paraphrase, nil
	}
	return "", fmt.Errorf("unknown mode %q (want %q or %q)", s, Paraphrase, Rhyme)
}

// Relation returns the lookup relation the mode asks for.
func (m Mode) Relation() lexicon.Relation {
	if m == Rhyme {
		return lexicon.Rhymes
	}
	return lexicon.MeansLike
}

// MaxResults returns the candidate cap the mode asks for.
func (m Mode) MaxResults() int {
	if m == Rhyme {
		return 3
	}
	return 5
}

// SplitSentences breaks paragraph into sentences. Paraphrase mode trims
// sentences and drops empty ones; rhyme mode keeps every line.
func (m Mode) SplitSentences(paragraph string) []string {
	if m == Rhyme {
		return strings.Split(paragraph, "\n")
	}
	parts := strings.Split(paragraph, ".")
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}

// JoinSentences is the inverse of SplitSentences. In paraphrase mode the
// terminating '.' comes back when the original paragraph had one.
func (m Mode) JoinSentences(sentences []string, original string) string {
	if m == Rhyme {
		return strings.Join(sentences, "\n")
	}
	joined := strings.Join(sentences, ". ")
	if strings.HasSuffix(strings.TrimSpace(original), ".") {
		joined += "."
	}
	return joined
}

// Scope is the span of text one CandidateSet is resolved for.
type Scope string

const (
	// ScopeParagraph resolves once per paragraph and shares the set.
	ScopeParagraph Scope = "paragraph"
	// ScopeSentence resolves every sentence independently.
	ScopeSentence Scope = "sentence"
)

// ParseScope validates a scope name.
func ParseScope(s string) (Scope, error) {
	switch sc := Scope(strings.ToLower(strings.TrimSpace(s))); sc {
	case ScopeParagraph, ScopeSentence:
		return sc, nil
	case "":
		return ScopeParagraph, nil
	}
	return "", fmt.Errorf("unknown scope %q (want %q or %q)", s, ScopeParagraph, ScopeSentence)
}

// Resolver builds a CandidateSet for a batch of words.
type Resolver interface {
	Resolve(ctx context.Context, words []string) lexicon.CandidateSet
}

// Rewriter resolves candidates and rewrites sentences and paragraphs.
type Rewriter struct {
	resolver Resolver
	sentence *SentenceRewriter
	mode     Mode
	scope    Scope
}

// NewRewriter wires a resolver to a sentence rewriter. A nil sentence
// rewriter gets the defaults.
func NewRewriter(resolver Resolver, sentence *SentenceRewriter, mode Mode, scope Scope) *Rewriter {
	if sentence == nil {
		sentence = NewSentenceRewriter()
	}
	if mode == "" {
		mode = Paraphrase
	}
	if scope == "" {
		scope = ScopeParagraph
	}
	return &Rewriter{resolver: resolver, sentence: sentence, mode: mode, scope: scope}
}

// Mode returns the rewriter's mode.
func (rw *Rewriter) Mode() Mode { return rw.mode }

// Scope returns the rewriter's resolution scope.
func (rw *Rewriter) Scope() Scope { return rw.scope }

// WithScope returns a copy of rw resolving over scope.
func (rw *Rewriter) WithScope(scope Scope) *Rewriter {
	cp := *rw
	if scope != "" {
		cp.scope = scope
	}
	return &cp
}

// Sentence resolves targets for this sentence alone and rewrites it.
func (rw *Rewriter) Sentence(ctx context.Context, sentence string, targets []string) string {
	cs := rw.resolve(ctx, []string{sentence}, targets)
	return rw.sentence.Rewrite(sentence, cs)
}

// Paragraph splits paragraph into sentences, rewrites each against a
// candidate set resolved for the configured scope and joins them back.
func (rw *Rewriter) Paragraph(ctx context.Context, paragraph string, targets []string) string {
	sentences := rw.mode.SplitSentences(paragraph)
	targets = utils.CleanTargets(targets)

	out := make([]string, len(sentences))
	if rw.scope == ScopeSentence {
		for i, s := range sentences {
			out[i] = rw.Sentence(ctx, s, targets)
		}
	} else {
		cs := rw.resolve(ctx, sentences, targets)
		for i, s := range sentences {
			out[i] = rw.sentence.Rewrite(s, cs)
		}
	}
	return rw.mode.JoinSentences(out, paragraph)
}

// resolve looks up only the targets that occur in texts.
func (rw *Rewriter) resolve(ctx context.Context, texts []string, targets []string) lexicon.CandidateSet {
	present := rw.sentence.presentTargets(texts, utils.CleanTargets(targets))
	if len(present) == 0 {
		return nil
	}
	return rw.resolver.Resolve(ctx, present)
}
