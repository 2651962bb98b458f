package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/wordswap/internal/logger"
	"github.com/bastiangx/wordswap/internal/utils"
	"github.com/bastiangx/wordswap/pkg/pipeline"
	"github.com/bastiangx/wordswap/pkg/rewrite"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// statsEvery controls how often request counters are logged.
const statsEvery = 100

// Server handles the IPC for document rewrites
type Server struct {
	pipeline *pipeline.Pipeline
	rewriter *rewrite.Rewriter
	dec      *msgpack.Decoder
	out      *bufio.Writer
	enc      *msgpack.Encoder
	logger   *log.Logger

	requestCount int
	errorCount   int
}

// NewServer creates a server reading requests from r and writing responses
// to w. Each rewrite runs p with rw, scoped per request.
func NewServer(p *pipeline.Pipeline, rw *rewrite.Rewriter, r io.Reader, w io.Writer) *Server {
	out := bufio.NewWriter(w)
	return &Server{
		pipeline: p,
		rewriter: rw,
		dec:      msgpack.NewDecoder(bufio.NewReader(r)),
		out:      out,
		enc:      msgpack.NewEncoder(out),
		logger:   logger.New("server"),
	}
}

// SetLogger replaces the server's logger.
func (s *Server) SetLogger(l *log.Logger) { s.logger = l }

// Start sends the ready status and serves requests until the input ends or
// ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting server")
	if err := s.send(HealthResponse{Status: "ready"}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("Input closed", "requests", s.requestCount, "errors", s.errorCount)
				return nil
			}
			s.logger.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}
		if err := s.handleRequest(ctx, raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes and dispatches one message. Only write failures
// are returned; request errors go back to the client.
func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) error {
	s.requestCount++
	if s.requestCount%statsEvery == 0 {
		s.logger.Debug("Request stats", "requests", s.requestCount, "errors", s.errorCount)
	}

	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Debugf("Invalid request: %v", err)
		return s.sendError("", "Invalid msgpack request", 400)
	}

	switch req.Cmd {
	case CmdRewrite:
		return s.handleRewrite(ctx, req)
	case CmdHealth:
		return s.send(HealthResponse{ID: req.ID, Status: "ok"})
	case "":
		return s.sendError(req.ID, "Missing 'cmd' parameter", 400)
	default:
		return s.sendError(req.ID, fmt.Sprintf("Unknown command: %s", req.Cmd), 400)
	}
}

func (s *Server) handleRewrite(ctx context.Context, req Request) error {
	if req.Text == "" {
		return s.sendError(req.ID, "Missing 'text' parameter", 400)
	}
	targets := utils.CleanTargets(req.Words)
	if len(targets) == 0 {
		return s.sendError(req.ID, "Missing 'words' parameter", 400)
	}

	rw := s.rewriter
	if req.Scope != "" {
		scope, err := rewrite.ParseScope(req.Scope)
		if err != nil {
			return s.sendError(req.ID, err.Error(), 400)
		}
		rw = rw.WithScope(scope)
	}

	start := time.Now()
	text, err := s.pipeline.WithRewriter(rw).Process(ctx, req.Text, targets)
	elapsed := time.Since(start)
	if err != nil {
		code := 500
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			code = 503
		}
		return s.sendError(req.ID, err.Error(), code)
	}

	s.logger.Debug("Rewrite done", "id", req.ID, "targets", len(targets), "elapsed", elapsed)
	return s.send(RewriteResponse{
		ID:         req.ID,
		Text:       text,
		Paragraphs: len(pipeline.SplitParagraphs(req.Text)),
		TimeTaken:  elapsed.Microseconds(),
	})
}

// send encodes response and flushes it so the client sees it immediately.
func (s *Server) send(response any) error {
	if err := s.enc.Encode(response); err != nil {
		s.logger.Errorf("Encoding response: %v", err)
		return fmt.Errorf("failed to encode response: %w", err)
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("failed to write response: %w", err)
	}
	return nil
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	s.errorCount++
	return s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
