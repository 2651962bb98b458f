// Package pipeline rewrites whole documents, one paragraph per worker.
package pipeline

import (
	"context"
	"runtime"
	"strings"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/pkg/document"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ParagraphSeparator delimits paragraphs in input and output documents.
const ParagraphSeparator = "\n\n"

// ParagraphRewriter rewrites a single paragraph.
type ParagraphRewriter interface {
	Paragraph(ctx context.Context, paragraph string, targets []string) string
}

// Pipeline is the document pipeline.
type Pipeline struct {
	rw      ParagraphRewriter
	workers int
	logger  *log.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers caps how many paragraphs are rewritten at once. Values below
// 1 are ignored.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the pipeline's logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// DefaultWorkers returns min(NumCPU, 4).
func DefaultWorkers() int {
	return min(runtime.NumCPU(), 4)
}

// New creates a pipeline around rw.
func New(rw ParagraphRewriter, opts ...Option) *Pipeline {
	p := &Pipeline{
		rw:      rw,
		workers: DefaultWorkers(),
		logger:  logger.New("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Workers returns the paragraph concurrency.
func (p *Pipeline) Workers() int { return p.workers }

// WithRewriter returns a copy of p that rewrites paragraphs with rw.
func (p *Pipeline) WithRewriter(rw ParagraphRewriter) *Pipeline {
	cp := *p
	cp.rw = rw
	return &cp
}

// SplitParagraphs splits text on blank lines, trims every paragraph and
// drops the empty ones.
func SplitParagraphs(text string) []string {
	parts := strings.Split(text, ParagraphSeparator)
	paragraphs := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			paragraphs = append(paragraphs, part)
		}
	}
	return paragraphs
}

// Process rewrites every paragraph of text concurrently and joins the
// results in input order. It fails only when ctx is cancelled.
func (p *Pipeline) Process(ctx context.Context, text string, targets []string) (string, error) {
	out, _, err := p.process(ctx, text, targets)
	return out, err
}

func (p *Pipeline) process(ctx context.Context, text string, targets []string) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	paragraphs := SplitParagraphs(text)
	results := make([]string, len(paragraphs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, para := range paragraphs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = p.rw.Paragraph(gctx, para, targets)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", 0, err
	}
	// lookups swallow cancellation, so check once more before trusting results
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	return strings.Join(results, ParagraphSeparator), len(paragraphs), nil
}

// Report summarizes one ProcessFile run.
type Report struct {
	RunID      uuid.UUID
	Paragraphs int
	Elapsed    time.Duration
}

// ProcessFile reads inPath, rewrites it and writes the result to outPath.
// A missing input fails with document.ErrInputNotFound before any lookup.
func (p *Pipeline) ProcessFile(ctx context.Context, inPath, outPath string, targets []string) (Report, error) {
	report := Report{RunID: uuid.New()}
	start := time.Now()
	l := p.logger.With("run", report.RunID.String())

	text, err := document.Read(inPath)
	if err != nil {
		return report, err
	}
	l.Debug("Read document", "path", inPath, "bytes", len(text))

	out, n, err := p.process(ctx, text, targets)
	report.Paragraphs = n
	if err != nil {
		l.Warnf("Run aborted: %v", err)
		return report, err
	}

	if err := document.Write(outPath, out); err != nil {
		return report, err
	}
	report.Elapsed = time.Since(start)
	l.Info("Document rewritten", "paragraphs", n, "out", outPath, "elapsed", report.Elapsed)
	return report, nil
}
