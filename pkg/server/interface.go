/*
Package server implements msgpack IPC for dictionary lookups.

The server reads msgpack values from stdin and writes one msgpack value per
answer to stdout. It is meant for editor plugins and scripts that want
lango's lookups without spawning a process per word.

# IPC

Right after start the server writes a status message:

	{"status": "ready"}

Lookup requests carry an ID, the word and the same switches as the cli:

	{"id": "req_001", "a": "lookup", "w": "apple", "x": true, "n": 2}

A hit returns the merged entry:

	{"id": "req_001", "status": "found", "entry": {"word": "apple", ...}, "t": 812}

A local miss with close words returns ranked suggestions instead:

	{"id": "req_002", "status": "suggestions", "s": [{"w": "apply", "r": 1}], "t": 95}

Health checks answer with {"id": "h1", "status": "ok"}. Requests without an
ID get a generated UUID, echoed back in the answer.

Bad requests get {"id": ..., "e": "...", "c": 400}. Local dataset failures
get code 500. Remote failures never show up as errors; they only make the
answer smaller.

Requests are processed one at a time in arrival order. "t" is the lookup
time in microseconds.
*/
package server

import "github.com/bastiangx/lango/pkg/lookup"

// Request actions.
const (
	ActionLookup = "lookup"
	ActionHealth = "health"
)

// Response statuses.
const (
	StatusReady       = "ready"
	StatusOK          = "ok"
	StatusFound       = "found"
	StatusNotFound    = "not_found"
	StatusSuggestions = "suggestions"
)

// Request is a single client message. An empty action means lookup. A nil
// MaxExamples uses the server default; 0 asks for no examples.
type Request struct {
	ID          string `msgpack:"id"`
	Action      string `msgpack:"a,omitempty"`
	Word        string `msgpack:"w"`
	English     bool   `msgpack:"e,omitempty"`
	Examples    bool   `msgpack:"x,omitempty"`
	Online      bool   `msgpack:"o,omitempty"`
	MaxExamples *int   `msgpack:"n,omitempty"`
}

// Suggestion is a near-miss word, rank 1 is the closest.
type Suggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// Example is a usage sentence.
type Example struct {
	English string `msgpack:"en"`
	Chinese string `msgpack:"zh,omitempty"`
}

// Entry is the wire form of lookup.Entry.
type Entry struct {
	Word         string    `msgpack:"word"`
	Phonetic     string    `msgpack:"phonetic,omitempty"`
	Translation  string    `msgpack:"translation,omitempty"`
	Definition   string    `msgpack:"definition,omitempty"`
	PartOfSpeech string    `msgpack:"pos,omitempty"`
	Morphology   string    `msgpack:"exchange,omitempty"`
	Tag          string    `msgpack:"tag,omitempty"`
	Examples     []Example `msgpack:"examples,omitempty"`
	Source       string    `msgpack:"source"`
}

// LookupResponse answers a lookup request.
type LookupResponse struct {
	ID          string       `msgpack:"id"`
	Status      string       `msgpack:"status"`
	Entry       *Entry       `msgpack:"entry,omitempty"`
	Suggestions []Suggestion `msgpack:"s,omitempty"`
	TimeTaken   int64        `msgpack:"t"`
}

// StatusResponse is sent on startup and for health checks.
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// LookupError reports a failed request.
type LookupError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

func toWireEntry(e *lookup.Entry) *Entry {
	out := &Entry{
		Word:         e.Word,
		Phonetic:     e.Phonetic,
		Translation:  e.Translation,
		Definition:   e.Definition,
		PartOfSpeech: e.PartOfSpeech,
		Morphology:   e.Morphology,
		Tag:          e.Tag,
		Source:       e.Source.String(),
	}
	for _, ex := range e.Examples {
		out.Examples = append(out.Examples, Example{English: ex.English, Chinese: ex.Chinese})
	}
	return out
}
