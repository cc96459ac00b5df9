// Package freedict is the remote lookup.Dictionary backed by the Free
// Dictionary API (dictionaryapi.dev).
//
// Remote trouble is never an error here. Lookup maps every failure to "no
// entry" and logs the cause at debug level.
package freedict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
)

const (
	DefaultEndpoint  = "https://api.dictionaryapi.dev/api/v2/entries/en"
	DefaultTimeout   = 5 * time.Second
	DefaultUserAgent = "lango-cli/0.1"

	maxBodySize = 1 << 20
)

var (
	errNotFound   = errors.New("word not found")
	errEmptyReply = errors.New("empty response")
	errTooLarge   = errors.New("response body too large")
)

// Options configures a Dictionary. Zero fields take the defaults.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	UserAgent string
	Client    *http.Client
	Logger    *log.Logger
}

// Dictionary queries the Free Dictionary API.
type Dictionary struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	log        *log.Logger
}

// New creates a Dictionary.
func New(opts Options) *Dictionary {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("freedict")
	}
	return &Dictionary{
		endpoint:   strings.TrimRight(opts.Endpoint, "/"),
		userAgent:  opts.UserAgent,
		httpClient: opts.Client,
		log:        opts.Logger,
	}
}

// Name implements lookup.Dictionary.
func (d *Dictionary) Name() string { return "Free Dictionary API" }

// IsAvailable implements lookup.Dictionary. There is no connection state.
func (d *Dictionary) IsAvailable() bool { return true }

// FuzzySearch implements lookup.Dictionary. The API has no fuzzy search.
func (d *Dictionary) FuzzySearch(context.Context, string, int) ([]string, error) {
	return []string{}, nil
}

// Lookup implements lookup.Dictionary. The error is always nil.
func (d *Dictionary) Lookup(ctx context.Context, term string) (*lookup.Entry, error) {
	entries, err := d.fetch(ctx, term)
	if err != nil {
		d.log.Debug("remote lookup yielded nothing", "term", term, "err", err)
		return nil, nil
	}
	return mapAPIResponse(entries[0], term), nil
}

// fetch performs the single GET for term. Any non-nil error means there is
// no usable remote data.
func (d *Dictionary) fetch(ctx context.Context, term string) ([]apiEntry, error) {
	reqURL := d.endpoint + "/" + url.PathEscape(term)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	d.log.Debug("freedict response", "term", term, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode == http.StatusNotFound {
		return nil, errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}
	if len(body) > maxBodySize {
		d.log.Debug("freedict body truncated", "term", term, "limit", maxBodySize)
		return nil, errTooLarge
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}
	if len(entries) == 0 {
		return nil, errEmptyReply
	}
	return entries, nil
}

// mapAPIResponse converts the first API entry into a lookup.Entry.
func mapAPIResponse(e apiEntry, term string) *lookup.Entry {
	entry := &lookup.Entry{
		Word:     e.Word,
		Phonetic: e.Phonetic,
		Source:   lookup.ProvenanceRemote,
	}
	if entry.Word == "" {
		entry.Word = term
	}
	if entry.Phonetic == "" {
		for _, ph := range e.Phonetics {
			if ph.Text != "" {
				entry.Phonetic = ph.Text
				break
			}
		}
	}

	var (
		pos         []string
		seenPos     = make(map[string]bool)
		definitions []string
	)
	for _, m := range e.Meanings {
		if m.PartOfSpeech != "" && !seenPos[m.PartOfSpeech] {
			seenPos[m.PartOfSpeech] = true
			pos = append(pos, m.PartOfSpeech)
		}
		for _, def := range m.Definitions {
			if def.Definition != "" {
				definitions = append(definitions, def.Definition)
			}
			if def.Example != "" {
				entry.Examples = append(entry.Examples, lookup.Example{English: def.Example})
			}
		}
	}
	entry.PartOfSpeech = strings.Join(pos, ", ")
	entry.Definition = strings.Join(definitions, "\n")
	return entry
}
