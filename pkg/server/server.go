package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
)

// Lookuper is the part of lookup.Service the server needs.
type Lookuper interface {
	LookupTimed(ctx context.Context, query string, opts lookup.Options) (lookup.Result, time.Duration, error)
}

// Server handles the IPC for lookups
type Server struct {
	svc      Lookuper
	dec      *msgpack.Decoder
	enc      *msgpack.Encoder
	defaults lookup.Options
	log      *log.Logger
	requests int
}

// NewServer creates a lookup server reading requests from r and writing
// answers to w. defaults.MaxExamples is used when a request leaves "n" unset.
func NewServer(svc Lookuper, r io.Reader, w io.Writer, defaults lookup.Options) *Server {
	return &Server{
		svc:      svc,
		dec:      msgpack.NewDecoder(r),
		enc:      msgpack.NewEncoder(w),
		defaults: defaults,
		log:      logger.New("server"),
	}
}

// Start announces readiness and serves requests until the input ends.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting server")
	if err := s.send(StatusResponse{Status: StatusReady}); err != nil {
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := s.dec.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.log.Debug("Input closed", "requests", s.requests)
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}
		s.requests++
		if err := s.handleRequest(ctx, raw); err != nil {
			return err
		}
	}
}

// handleRequest decodes one raw message and answers it. Only write errors
// are returned.
func (s *Server) handleRequest(ctx context.Context, raw msgpack.RawMessage) error {
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Debugf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid msgpack request", 400)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	switch req.Action {
	case "", ActionLookup:
		return s.handleLookup(ctx, req)
	case ActionHealth:
		return s.send(StatusResponse{ID: req.ID, Status: StatusOK})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleLookup(ctx context.Context, req Request) error {
	if !utils.IsValidQuery(req.Word) {
		s.log.Debug("Rejecting word", "id", req.ID, "word", req.Word)
		return s.sendError(req.ID, "missing or invalid 'w' parameter", 400)
	}

	opts := s.options(req)
	res, elapsed, err := s.svc.LookupTimed(ctx, req.Word, opts)
	if err != nil {
		s.log.Error("Lookup failed", "id", req.ID, "err", err)
		return s.sendError(req.ID, err.Error(), 500)
	}

	resp := LookupResponse{ID: req.ID, TimeTaken: elapsed.Microseconds()}
	switch r := res.(type) {
	case lookup.Found:
		resp.Status = StatusFound
		resp.Entry = toWireEntry(r.Entry)
	case lookup.Suggestions:
		resp.Status = StatusSuggestions
		resp.Suggestions = rankSuggestions(r.Words)
	default:
		resp.Status = StatusNotFound
	}
	return s.send(resp)
}

// options applies request switches over the server defaults. Online implies
// English output.
func (s *Server) options(req Request) lookup.Options {
	opts := lookup.Options{
		ShowEnglish:  s.defaults.ShowEnglish || req.English || req.Online,
		ShowExamples: s.defaults.ShowExamples || req.Examples,
		ForceRemote:  req.Online,
		MaxExamples:  s.defaults.MaxExamples,
	}
	if n := req.MaxExamples; n != nil && *n >= 0 {
		opts.MaxExamples = *n
	}
	return opts
}

func (s *Server) send(v any) error {
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Writing response: %v", err)
		return fmt.Errorf("writing response: %w", err)
	}
	return nil
}

func (s *Server) sendError(id, message string, code int) error {
	return s.send(LookupError{ID: id, Error: message, Code: code})
}

func rankSuggestions(words []string) []Suggestion {
	ranks := utils.SuggestionRanks(len(words))
	out := make([]Suggestion, len(words))
	for i, w := range words {
		out[i] = Suggestion{Word: w, Rank: ranks[i]}
	}
	return out
}
