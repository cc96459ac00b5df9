package dictionary

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// TrieStore is an in-memory Store keyed by lowercased word.
type TrieStore struct {
	mu     sync.RWMutex
	trie   *patricia.Trie
	count  int
	closed bool
}

// NewTrieStore indexes records. When two records share a lowercased key the
// first one wins.
func NewTrieStore(records []Record) *TrieStore {
	s := &TrieStore{trie: patricia.NewTrie()}
	for i := range records {
		s.insert(records[i])
	}
	return s
}

func (s *TrieStore) insert(rec Record) {
	key := strings.ToLower(strings.TrimSpace(rec.Word))
	if key == "" {
		return
	}
	r := rec
	if s.trie.Insert(patricia.Prefix(key), &r) {
		s.count++
	}
}

// LoadCSV reads the ECDICT CSV distribution. Columns are matched by header
// name, so extra columns such as collins or frq are ignored. Literal "\n"
// sequences inside fields become newlines.
func LoadCSV(r io.Reader) (*TrieStore, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return NewTrieStore(nil), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	wordCol, ok := cols["word"]
	if !ok {
		return nil, fmt.Errorf("csv header has no word column")
	}

	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.ReplaceAll(row[i], `\n`, "\n")
	}

	s := NewTrieStore(nil)
	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		if wordCol >= len(row) {
			continue
		}
		s.insert(Record{
			Word:        row[wordCol],
			Phonetic:    field(row, "phonetic"),
			Definition:  field(row, "definition"),
			Translation: field(row, "translation"),
			Pos:         field(row, "pos"),
			Exchange:    field(row, "exchange"),
			Tag:         field(row, "tag"),
		})
	}

	log.Debugf("Loaded %d words from csv", s.count)
	return s, nil
}

// OpenCSV loads a CSV dataset from disk.
func OpenCSV(path string) (*TrieStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	s, err := LoadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s, nil
}

// Get implements Store.
func (s *TrieStore) Get(_ context.Context, word string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	item := s.trie.Get(patricia.Prefix(strings.ToLower(word)))
	if item == nil {
		return nil, nil
	}
	rec := *item.(*Record)
	return &rec, nil
}

// ScanPrefix implements Store.
func (s *TrieStore) ScanPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var words []string
	err := s.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(_ patricia.Prefix, item patricia.Item) error {
		words = append(words, item.(*Record).Word)
		return ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("scan prefix %q: %w", prefix, err)
	}
	return shortestFirst(words, limit), nil
}

// ScanSubstring implements Store. It walks every key.
func (s *TrieStore) ScanSubstring(ctx context.Context, sub string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	needle := strings.ToLower(sub)
	var words []string
	err := s.trie.Visit(func(key patricia.Prefix, item patricia.Item) error {
		if strings.Contains(string(key), needle) {
			words = append(words, item.(*Record).Word)
		}
		return ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("scan substring %q: %w", sub, err)
	}
	return shortestFirst(words, limit), nil
}

// Count implements Store.
func (s *TrieStore) Count(context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}
	return s.count, nil
}

// Close implements Store and drops the index.
func (s *TrieStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.trie = nil
	return nil
}

// shortestFirst orders words by character count, then lexically, and keeps
// at most limit.
func shortestFirst(words []string, limit int) []string {
	sort.Slice(words, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(words[i]), utf8.RuneCountInString(words[j])
		if li != lj {
			return li < lj
		}
		return words[i] < words[j]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	if words == nil {
		return []string{}
	}
	return words
}
