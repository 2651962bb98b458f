package rewrite

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"

	"github.com/bastiangx/wordswap/pkg/lexicon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		raw         string
		word        string
		trailing    string
		capitalized bool
	}{
		{"fox", "fox", "", false},
		{"Fox.", "Fox", ".", true},
		{"fox?!", "fox", "?!", false},
		{"dog;", "dog", ";", false},
		{"(fox)", "(fox)", "", false},
		{"...", "", "...", false},
		{"Élan,", "Élan", ",", true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			tok := ParseToken(tc.raw)
			assert.Equal(t, tc.word, tok.Word)
			assert.Equal(t, tc.trailing, tok.Trailing)
			assert.Equal(t, tc.capitalized, tok.Capitalized)
		})
	}
}

func TestTokenReplace(t *testing.T) {
	assert.Equal(t, "Wolf.", ParseToken("Fox.").Replace("wolf"))
	assert.Equal(t, "wolf,", ParseToken("fox,").Replace("Wolf"))
	assert.Equal(t, "Ärger!", ParseToken("Zorn!").Replace("ärger"))
	assert.Equal(t, "wolf", ParseToken("fox").Replace("wolf"))
}

func TestRewriteConcreteScenario(t *testing.T) {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	cs := lexicon.CandidateSet{"quick": {"speedy"}, "fox": {"wolf"}}

	got := sr.Rewrite("The quick brown fox jumps.", cs)
	assert.Equal(t, "The speedy brown wolf jumps.", got)
}

func TestRewriteCapitalizedTokenPolicy(t *testing.T) {
	cs := lexicon.CandidateSet{"fox": {"wolf"}}

	folded := NewSentenceRewriter(WithPicker(FirstPicker{}))
	assert.Equal(t, "Wolf runs.", folded.Rewrite("Fox runs.", cs))

	exact := NewSentenceRewriter(WithPicker(FirstPicker{}), WithCaseSensitive(true))
	assert.Equal(t, "Fox runs.", exact.Rewrite("Fox runs.", cs))
	assert.Equal(t, "A wolf runs.", exact.Rewrite("A fox runs.", cs))
}

func TestRewriteEmptySetIsIdentity(t *testing.T) {
	sr := NewSentenceRewriter()
	for _, s := range []string{"", "  odd   spacing\there ", "The fox."} {
		assert.Equal(t, s, sr.Rewrite(s, nil))
		assert.Equal(t, s, sr.Rewrite(s, lexicon.CandidateSet{}))
	}
}

func TestRewriteKeepsTrailingPunctuation(t *testing.T) {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	cs := lexicon.CandidateSet{"fox": {"wolf"}, "dog": {"hound"}}

	got := sr.Rewrite("fox, dog! fox?! dog", cs)
	assert.Equal(t, "wolf, hound! wolf?! hound", got)
}

func TestRewriteNormalizesWhitespaceOnlyWhenSetNonEmpty(t *testing.T) {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	cs := lexicon.CandidateSet{"cat": {"dog"}}
	assert.Equal(t, "the big fox", sr.Rewrite("the   big\tfox", cs))
}

func TestRewriteMatchesFirstRuneCaseOfCandidate(t *testing.T) {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	cs := lexicon.CandidateSet{"fox": {"Wolf"}}
	assert.Equal(t, "the wolf", sr.Rewrite("the fox", cs))
	assert.Equal(t, "Wolf", sr.Rewrite("Fox", cs))
}

func TestRewriteMergesFoldedKeys(t *testing.T) {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	cs := lexicon.CandidateSet{"Fox": {"reynard"}, "fox": {"wolf"}}

	// exact key wins
	assert.Equal(t, "wolf", sr.Rewrite("fox", cs))
	assert.Equal(t, "Reynard", sr.Rewrite("Fox", cs))
	// FOX has no exact entry; the folded list starts with the "Fox" entry
	assert.Equal(t, "Reynard", sr.Rewrite("FOX", cs))
}

func TestRewriteConsistent(t *testing.T) {
	cs := lexicon.CandidateSet{"fox": {"a", "b", "c", "d", "e", "f", "g", "h"}}
	sentence := strings.Repeat("fox ", 20)

	sr := NewSentenceRewriter(WithPicker(NewPicker(7)), WithConsistent(true))
	fields := strings.Fields(sr.Rewrite(sentence, cs))
	require.Len(t, fields, 20)
	for _, f := range fields {
		assert.Equal(t, fields[0], f)
	}
}

func TestRewriteSeededPickerIsDeterministic(t *testing.T) {
	cs := lexicon.CandidateSet{"fox": {"a", "b", "c"}, "dog": {"x", "y", "z"}}
	sentence := "fox dog fox dog fox dog fox dog"

	first := NewSentenceRewriter(WithPicker(NewPicker(42))).Rewrite(sentence, cs)
	second := NewSentenceRewriter(WithPicker(NewPicker(42))).Rewrite(sentence, cs)
	assert.Equal(t, first, second)
}

func TestRewritePickerIsUniformEnough(t *testing.T) {
	cs := lexicon.CandidateSet{"fox": {"a", "b", "c"}}
	sr := NewSentenceRewriter(WithPicker(NewPicker(1)))

	counts := map[string]int{}
	for i := 0; i < 300; i++ {
		counts[sr.Rewrite("fox", cs)]++
	}
	for _, c := range []string{"a", "b", "c"} {
		assert.Greater(t, counts[c], 50, c)
	}
}

// Randomized checks over generated sentences: token count is preserved,
// unmatched tokens are untouched and matched tokens keep case and trailing
// punctuation.
func TestRewriteProperties(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	vocab := []string{"fox", "Fox", "dog", "The", "quick", "runs", "a", "b", "cat", "Éclair"}
	puncts := []string{"", "", "", ".", ",", "!", "?", ";", ":", "?!"}
	cs := lexicon.CandidateSet{"fox": {"wolf", "Coyote"}, "quick": {"fast"}, "éclair": {"cake"}}
	sr := NewSentenceRewriter(WithPicker(NewPicker(9)))

	for i := 0; i < 200; i++ {
		n := 1 + rng.IntN(12)
		tokens := make([]string, n)
		for j := range tokens {
			tokens[j] = vocab[rng.IntN(len(vocab))] + puncts[rng.IntN(len(puncts))]
		}
		sentence := strings.Join(tokens, " ")

		out := strings.Fields(sr.Rewrite(sentence, cs))
		require.Len(t, out, n, sentence)

		for j, raw := range tokens {
			tok := ParseToken(raw)
			if _, _, ok := newMatcher(cs, false).lookup(tok.Word); !ok {
				assert.Equal(t, raw, out[j])
				continue
			}
			got := ParseToken(out[j])
			assert.Equal(t, tok.Trailing, got.Trailing, "trailing of %q -> %q", raw, out[j])
			assert.Equal(t, tok.Capitalized, got.Capitalized, "case of %q -> %q", raw, out[j])
		}
	}
}

// recordingResolver answers from a table and records every batch.
type recordingResolver struct {
	table map[string][]string
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingResolver) Resolve(_ context.Context, words []string) lexicon.CandidateSet {
	r.mu.Lock()
	r.calls = append(r.calls, append([]string(nil), words...))
	r.mu.Unlock()

	cs := lexicon.CandidateSet{}
	for _, w := range words {
		cs.Add(w, r.table[w])
	}
	return cs
}

func TestParagraphSharesOneResolution(t *testing.T) {
	res := &recordingResolver{table: map[string][]string{"fox": {"wolf"}, "lazy": {"idle"}}}
	rw := NewRewriter(res, NewSentenceRewriter(WithPicker(FirstPicker{})), Paraphrase, ScopeParagraph)

	got := rw.Paragraph(context.Background(), "The fox runs. The lazy fox sleeps.", []string{"fox", "lazy", "dog"})
	assert.Equal(t, "The wolf runs. The idle wolf sleeps.", got)
	require.Len(t, res.calls, 1)
	// "dog" is not in the paragraph, so it is never looked up
	assert.Equal(t, []string{"fox", "lazy"}, res.calls[0])
}

func TestParagraphSentenceScopeResolvesEachSentence(t *testing.T) {
	res := &recordingResolver{table: map[string][]string{"fox": {"wolf"}, "lazy": {"idle"}}}
	rw := NewRewriter(res, NewSentenceRewriter(WithPicker(FirstPicker{})), Paraphrase, ScopeSentence)

	got := rw.Paragraph(context.Background(), "The fox runs. The lazy fox sleeps. Nothing here.", []string{"fox", "lazy"})
	assert.Equal(t, "The wolf runs. The idle wolf sleeps. Nothing here.", got)
	assert.Equal(t, [][]string{{"fox"}, {"fox", "lazy"}}, res.calls)
}

func TestParagraphTrailingPeriod(t *testing.T) {
	res := &recordingResolver{}
	rw := NewRewriter(res, nil, Paraphrase, ScopeParagraph)

	assert.Equal(t, "One. Two", rw.Paragraph(context.Background(), "One. Two", nil))
	assert.Equal(t, "One. Two.", rw.Paragraph(context.Background(), "One.  Two.", nil))
	assert.Equal(t, "One. Two.", rw.Paragraph(context.Background(), "One..Two. ", nil))
	assert.Empty(t, res.calls)
}

func TestParagraphRhymeMode(t *testing.T) {
	res := &recordingResolver{table: map[string][]string{"funny": {"money"}, "bunny": {"honey"}}}
	rw := NewRewriter(res, NewSentenceRewriter(WithPicker(FirstPicker{})), Rhyme, ScopeParagraph)

	got := rw.Paragraph(context.Background(), "The funny bunny\nate in the sun.\nFunny!", []string{"funny", "bunny"})
	assert.Equal(t, "The money honey\nate in the sun.\nMoney!", got)
	require.Len(t, res.calls, 1)
}

func TestRewriterSentence(t *testing.T) {
	res := &recordingResolver{table: map[string][]string{"funny": {"sunny"}}}
	rw := NewRewriter(res, NewSentenceRewriter(WithPicker(FirstPicker{})), Rhyme, ScopeSentence)

	ctx := context.Background()
	assert.Equal(t, "a sunny day", rw.Sentence(ctx, "a funny day", []string{"funny"}))
	assert.Equal(t, "no targets here", rw.Sentence(ctx, "no targets here", []string{"funny"}))
	assert.Equal(t, "untouched  spacing", rw.Sentence(ctx, "untouched  spacing", nil))
	assert.Len(t, res.calls, 1)
}

func TestRewriterWithScope(t *testing.T) {
	rw := NewRewriter(&recordingResolver{}, nil, "", "")
	assert.Equal(t, Paraphrase, rw.Mode())
	assert.Equal(t, ScopeParagraph, rw.Scope())
	assert.Equal(t, ScopeSentence, rw.WithScope(ScopeSentence).Scope())
	assert.Equal(t, ScopeParagraph, rw.Scope())
}

func TestParseModeAndScope(t *testing.T) {
	for in, want := range map[string]Mode{"": Paraphrase, "Rhyme": Rhyme, " paraphrase ": Paraphrase} {
		got, err := ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseMode("haiku")
	assert.Error(t, err)

	sc, err := ParseScope("SENTENCE")
	require.NoError(t, err)
	assert.Equal(t, ScopeSentence, sc)
	_, err = ParseScope("document")
	assert.Error(t, err)
}

func TestModeRelation(t *testing.T) {
	assert.Equal(t, lexicon.Rhymes, Rhyme.Relation())
	assert.Equal(t, 3, Rhyme.MaxResults())
	assert.Equal(t, lexicon.MeansLike, Paraphrase.Relation())
	assert.Equal(t, 5, Paraphrase.MaxResults())
}

func ExampleSentenceRewriter_Rewrite() {
	sr := NewSentenceRewriter(WithPicker(FirstPicker{}))
	fmt.Println(sr.Rewrite("The quick brown fox jumps.", lexicon.CandidateSet{
		"quick": {"speedy"},
		"fox":   {"wolf"},
	}))
	// Output: The speedy brown wolf jumps.
}
