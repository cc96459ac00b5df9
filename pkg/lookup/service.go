package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultSuggestionLimit is how many fuzzy candidates are offered when an
// exact local lookup misses.
const DefaultSuggestionLimit = 5

// ErrLocalSource marks failures of the local dataset. They are never turned
// into NotFound.
var ErrLocalSource = errors.New("local dictionary failure")

// Config tunes a Service.
type Config struct {
	SuggestionLimit int
	// PrefetchRemote starts the remote request alongside the local lookup
	// when the options are likely to need it.
	PrefetchRemote bool
	Logger         *log.Logger
}

// DefaultConfig returns a sequential Service config with 5 suggestions.
func DefaultConfig() Config {
	return Config{SuggestionLimit: DefaultSuggestionLimit}
}

// Service is the lookup orchestrator.
type Service struct {
	local  Dictionary
	remote Dictionary
	cfg    Config
	log    *log.Logger
}

// NewService wires the local and remote sources. Either may be nil.
func NewService(local, remote Dictionary, cfg Config) *Service {
	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = DefaultSuggestionLimit
	}
	l := cfg.Logger
	if l == nil {
		l = logger.New("lookup")
	}
	return &Service{
		local:  local,
		remote: remote,
		cfg:    cfg,
		log:    l,
	}
}

// LookupTimed runs Lookup and also reports how long it took.
func (s *Service) LookupTimed(ctx context.Context, query string, opts Options) (Result, time.Duration, error) {
	start := time.Now()
	res, err := s.Lookup(ctx, query, opts)
	return res, time.Since(start), err
}

// Lookup resolves query into Found, NotFound or Suggestions.
//
// Forced-remote mode never touches the local source. Otherwise the local
// exact entry wins and is only supplemented by the remote one; a local miss
// with fuzzy candidates returns Suggestions without asking the remote source.
func (s *Service) Lookup(ctx context.Context, query string, opts Options) (Result, error) {
	term := Normalize(query)
	if term == "" {
		return NotFound{}, nil
	}

	if opts.ForceRemote {
		s.log.Debug("forced remote lookup", "term", term)
		return s.remoteOnly(ctx, term, opts, nil), nil
	}
	if !s.localReady() {
		s.log.Debug("local dictionary unavailable, using remote", "term", term)
		return s.remoteOnly(ctx, term, opts, nil), nil
	}

	var pre *prefetch
	if s.cfg.PrefetchRemote && s.remoteReady() && (opts.ShowExamples || opts.ShowEnglish) {
		pre = s.startPrefetch(ctx, term)
	}

	entry, err := s.local.Lookup(ctx, term)
	if err != nil {
		pre.abort()
		return nil, fmt.Errorf("%w: %s lookup %q: %w", ErrLocalSource, s.local.Name(), term, err)
	}

	if entry != nil {
		if needsSupplement(entry, opts) {
			s.log.Debug("local entry incomplete, asking remote", "term", term)
			if remote := s.remoteEntry(ctx, term, pre); remote != nil {
				merge(entry, remote)
			}
		} else {
			pre.abort()
		}
		entry.Examples = truncateExamples(entry.Examples, opts.MaxExamples)
		return Found{Entry: entry}, nil
	}

	suggestions, err := s.local.FuzzySearch(ctx, term, s.cfg.SuggestionLimit)
	if err != nil {
		pre.abort()
		return nil, fmt.Errorf("%w: %s fuzzy search %q: %w", ErrLocalSource, s.local.Name(), term, err)
	}
	if len(suggestions) > 0 {
		pre.abort()
		s.log.Debug("local suggestions", "term", term, "count", len(suggestions))
		return Suggestions{Words: suggestions}, nil
	}

	return s.remoteOnly(ctx, term, opts, pre), nil
}

// remoteOnly answers from the remote source alone.
func (s *Service) remoteOnly(ctx context.Context, term string, opts Options, pre *prefetch) Result {
	entry := s.remoteEntry(ctx, term, pre)
	if entry == nil {
		return NotFound{}
	}
	entry.Examples = truncateExamples(entry.Examples, opts.MaxExamples)
	return Found{Entry: entry}
}

// remoteEntry returns the remote entry for term or nil. Remote errors are
// logged and dropped here.
func (s *Service) remoteEntry(ctx context.Context, term string, pre *prefetch) *Entry {
	if pre != nil {
		return pre.wait()
	}
	if !s.remoteReady() {
		return nil
	}
	entry, err := s.remote.Lookup(ctx, term)
	if err != nil {
		s.log.Debug("remote lookup failed", "term", term, "err", err)
		return nil
	}
	return entry
}

func (s *Service) localReady() bool {
	return s.local != nil && s.local.IsAvailable()
}

func (s *Service) remoteReady() bool {
	return s.remote != nil && s.remote.IsAvailable()
}

func needsSupplement(e *Entry, opts Options) bool {
	return (opts.ShowExamples && len(e.Examples) == 0) ||
		(opts.ShowEnglish && e.Definition == "")
}

// merge fills empty fields of primary from secondary. Examples are taken
// all-or-nothing.
func merge(primary, secondary *Entry) {
	if primary.Definition == "" {
		primary.Definition = secondary.Definition
	}
	if len(primary.Examples) == 0 {
		primary.Examples = secondary.Examples
	}
}

// prefetch is a remote lookup started before the local one finishes.
type prefetch struct {
	g      errgroup.Group
	cancel context.CancelFunc
	entry  *Entry
	log    *log.Logger
}

func (s *Service) startPrefetch(ctx context.Context, term string) *prefetch {
	pctx, cancel := context.WithCancel(ctx)
	p := &prefetch{cancel: cancel, log: s.log}
	p.g.Go(func() error {
		entry, err := s.remote.Lookup(pctx, term)
		if err != nil {
			return err
		}
		p.entry = entry
		return nil
	})
	return p
}

// wait blocks until the prefetched request is done.
func (p *prefetch) wait() *Entry {
	defer p.cancel()
	if err := p.g.Wait(); err != nil {
		p.log.Debug("prefetched remote lookup failed", "err", err)
		return nil
	}
	return p.entry
}

// abort cancels an unneeded prefetch. Safe on nil.
func (p *prefetch) abort() {
	if p == nil {
		return
	}
	p.cancel()
	_ = p.g.Wait()
}
