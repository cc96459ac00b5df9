/*
Package lookup decides which dictionary sources answer a query and merges
what they return into a single result.

A Service is built from a local source (the indexed ECDICT dataset) and a
remote source (the Free Dictionary API). Either may be nil. Local exact
matches always win; the remote source only fills fields the local entry is
missing, or answers when the local dataset has nothing at all.

	svc := lookup.NewService(local, remote, lookup.DefaultConfig())
	res, err := svc.Lookup(ctx, "apple", lookup.Options{ShowExamples: true, MaxExamples: 3})

	switch r := res.(type) {
	case lookup.Found:
		fmt.Println(r.Entry.Word)
	case lookup.Suggestions:
		fmt.Println(r.Words)
	case lookup.NotFound:
		fmt.Println("nothing")
	}

Only local storage failures are returned as errors. Remote problems
(offline, timeouts, bad payloads) show up as "no remote data".
*/
package lookup

import (
	"context"
	"strings"
)

// Provenance tells which backend produced the primary record of an Entry.
type Provenance int

const (
	ProvenanceLocal Provenance = iota
	ProvenanceRemote
)

// String returns the label shown in the result footer.
func (p Provenance) String() string {
	switch p {
	case ProvenanceLocal:
		return "ECDICT (local)"
	case ProvenanceRemote:
		return "Free Dictionary API (online)"
	default:
		return "unknown"
	}
}

// Example is a usage sentence with an optional translation.
type Example struct {
	English string `json:"english"`
	Chinese string `json:"chinese,omitempty"`
}

// Entry is the merged lookup record. Empty strings mean "not present".
type Entry struct {
	Word         string     `json:"word"`
	Phonetic     string     `json:"phonetic,omitempty"`
	Translation  string     `json:"translation,omitempty"`
	Definition   string     `json:"definition,omitempty"`
	PartOfSpeech string     `json:"part_of_speech,omitempty"`
	Morphology   string     `json:"morphology,omitempty"`
	Tag          string     `json:"tag,omitempty"`
	Examples     []Example  `json:"examples,omitempty"`
	Source       Provenance `json:"-"`
}

// Options is the per-call configuration built by the CLI from its flags.
type Options struct {
	ShowEnglish  bool
	ShowExamples bool
	ForceRemote  bool
	MaxExamples  int
}

// Result is one of Found, NotFound or Suggestions.
type Result interface {
	isResult()
}

// Found carries the merged entry.
type Found struct {
	Entry *Entry
}

// NotFound means no source knew the term and there was nothing close locally.
type NotFound struct{}

// Suggestions lists local near-misses, closest first.
type Suggestions struct {
	Words []string
}

func (Found) isResult()       {}
func (NotFound) isResult()    {}
func (Suggestions) isResult() {}

// Dictionary is a source the Service can consult.
type Dictionary interface {
	// Lookup returns the exact entry for term, or nil when there is none.
	Lookup(ctx context.Context, term string) (*Entry, error)

	// FuzzySearch returns up to limit close terms, closest first.
	FuzzySearch(ctx context.Context, term string, limit int) ([]string, error)

	// IsAvailable reports whether the source can be queried at all.
	IsAvailable() bool

	Name() string
}

// Normalize trims surrounding whitespace and lowercases the query.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

// truncateExamples keeps at most n examples, preserving order.
func truncateExamples(examples []Example, n int) []Example {
	if n < 0 {
		n = 0
	}
	if len(examples) <= n {
		return examples
	}
	return examples[:n]
}
