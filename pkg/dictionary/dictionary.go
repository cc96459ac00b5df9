/*
Package dictionary serves exact and approximate lookups from a local copy of
the ECDICT dataset.

The dataset is reached through a Store. Two backends exist: SQLiteStore for
the ecdict-sqlite release and TrieStore, an in-memory patricia trie built from
the ecdict.csv release. OpenStore picks one from the file extension.

	local, err := dictionary.Open("~/.local/share/lango/stardict.db")
	if err != nil {
		return err
	}
	defer local.Close()

	entry, err := local.Lookup(ctx, "apple")
	suggestions, err := local.FuzzySearch(ctx, "appel", 5)
*/
package dictionary

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/fuzzy"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
)

// Local is the ECDICT-backed lookup.Dictionary.
type Local struct {
	store  Store
	closed atomic.Bool
	log    *log.Logger
}

// NewLocal wraps an open Store.
func NewLocal(store Store) *Local {
	return &Local{
		store: store,
		log:   logger.New("dictionary"),
	}
}

// Open opens the dataset at path.
func Open(path string) (*Local, error) {
	store, err := OpenStore(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	return NewLocal(store), nil
}

// Name implements lookup.Dictionary.
func (l *Local) Name() string { return "ECDICT" }

// IsAvailable implements lookup.Dictionary.
func (l *Local) IsAvailable() bool {
	return l.store != nil && !l.closed.Load()
}

// Lookup implements lookup.Dictionary. Local entries never carry examples.
func (l *Local) Lookup(ctx context.Context, term string) (*lookup.Entry, error) {
	rec, err := l.store.Get(ctx, term)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	return &lookup.Entry{
		Word:         rec.Word,
		Phonetic:     rec.Phonetic,
		Translation:  rec.Translation,
		Definition:   rec.Definition,
		PartOfSpeech: rec.Pos,
		Morphology:   rec.Exchange,
		Tag:          rec.Tag,
		Source:       lookup.ProvenanceLocal,
	}, nil
}

// FuzzySearch implements lookup.Dictionary.
//
// Prefix matches are gathered first (up to 2*limit). Substring matches top
// the pool up (up to 3*limit) only when prefixes alone fall short of limit.
// The whole pool is then ranked by edit distance to term.
func (l *Local) FuzzySearch(ctx context.Context, term string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	seen := utils.NewSuggestionFilter()
	prefix, err := l.store.ScanPrefix(ctx, term, 2*limit)
	if err != nil {
		return nil, err
	}
	pool := seen.Filter(prefix)

	if len(pool) < limit {
		sub, err := l.store.ScanSubstring(ctx, term, 3*limit)
		if err != nil {
			return nil, err
		}
		pool = append(pool, seen.Filter(sub)...)
	}

	l.log.Debug("fuzzy pool", "term", term, "prefix", len(prefix), "total", len(pool))
	return fuzzy.Top(term, pool, limit), nil
}

// Count reports how many words the dataset holds.
func (l *Local) Count(ctx context.Context) (int, error) {
	if !l.IsAvailable() {
		return 0, ErrClosed
	}
	return l.store.Count(ctx)
}

// Close releases the store. Later calls report unavailable.
func (l *Local) Close() error {
	if l.closed.Swap(true) || l.store == nil {
		return nil
	}
	return l.store.Close()
}
