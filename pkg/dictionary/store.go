package dictionary

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrClosed is returned by a Store used after Close.
	ErrClosed = errors.New("dictionary store is closed")

	// ErrUnsupportedFormat is returned when a dataset path has no known format.
	ErrUnsupportedFormat = errors.New("unsupported dictionary format")
)

// Record is one row of the ECDICT dataset. Missing columns are empty.
type Record struct {
	Word        string
	Phonetic    string
	Definition  string
	Translation string
	Pos         string
	Exchange    string
	Tag         string
}

// Store is the indexed dataset backing a Local dictionary.
type Store interface {
	// Get returns the record whose key equals word ignoring case, or nil.
	Get(ctx context.Context, word string) (*Record, error)

	// ScanPrefix returns up to limit keys starting with prefix, ignoring
	// case, shortest first with ties ordered by key.
	ScanPrefix(ctx context.Context, prefix string, limit int) ([]string, error)

	// ScanSubstring is ScanPrefix for keys containing sub anywhere.
	ScanSubstring(ctx context.Context, sub string, limit int) ([]string, error)

	Count(ctx context.Context) (int, error)
	Close() error
}

// escapeLike escapes LIKE metacharacters for use with ESCAPE '\'.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
