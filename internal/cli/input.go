// Package cli handles interactive rewriting from the cmd line for DBG and
// trying out target words.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/rewrite"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// wordsCmd replaces the target list for the following lines.
const wordsCmd = ":words"

var replacedStyle = lipgloss.NewStyle().Bold(true).
	Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})

// InputHandler reads lines from stdin and prints every line rewritten on
// its own, resolving candidates per line.
type InputHandler struct {
	rewriter     *rewrite.Rewriter
	targets      []string
	in           io.Reader
	out          io.Writer
	highlight    bool
	requestCount int
}

// NewInputHandler creates a handler over stdin/stdout.
func NewInputHandler(rw *rewrite.Rewriter, targets []string) *InputHandler {
	return &InputHandler{
		rewriter:  rw,
		targets:   utils.CleanTargets(targets),
		in:        os.Stdin,
		out:       os.Stdout,
		highlight: true,
	}
}

// SetIO redirects input and output. Highlighting is turned off.
func (h *InputHandler) SetIO(in io.Reader, out io.Writer) {
	h.in = in
	h.out = out
	h.highlight = false
}

// Targets returns the current target words.
func (h *InputHandler) Targets() []string { return h.targets }

// Start begins the interface loop. It returns nil at end of input.
func (h *InputHandler) Start(ctx context.Context) error {
	log.Print("wordswap CLI [BETA]")
	log.Print("type a sentence and press Enter to rewrite it (Ctrl+C to exit):")
	if len(h.targets) == 0 {
		log.Warnf("No target words yet, set them with '%s a,b,c'", wordsCmd)
	}

	scanner := bufio.NewScanner(h.in)
	for {
		log.Print("> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		h.handleInput(ctx, line)
	}
}

// handleInput rewrites one line or applies a :words command.
func (h *InputHandler) handleInput(ctx context.Context, line string) {
	h.requestCount++

	if rest, ok := strings.CutPrefix(line, wordsCmd); ok {
		h.targets = utils.CleanTargets(utils.SplitList(rest))
		log.Infof("Targets: %s", strings.Join(h.targets, ", "))
		return
	}
	if len(h.targets) == 0 {
		log.Errorf("No target words set")
		return
	}

	start := time.Now()
	rewritten := h.rewriter.Sentence(ctx, line, h.targets)
	log.Debugf("Took [ %v ] for line %d", time.Since(start), h.requestCount)

	if rewritten == line {
		log.Warnf("Nothing replaced in: '%s'", line)
	}
	fmt.Fprintln(h.out, h.render(line, rewritten))
}

// render highlights the tokens that changed. Token counts always match, so
// tokens are compared by position.
func (h *InputHandler) render(original, rewritten string) string {
	if !h.highlight {
		return rewritten
	}
	before := strings.Fields(original)
	after := strings.Fields(rewritten)
	if len(before) != len(after) {
		return rewritten
	}
	for i := range after {
		if after[i] != before[i] {
			after[i] = replacedStyle.Render(after[i])
		}
	}
	return strings.Join(after, " ")
}
