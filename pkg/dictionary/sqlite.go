package dictionary

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

const (
	selectRecord = `SELECT word, phonetic, definition, translation, pos, exchange, tag
		FROM stardict WHERE word = ? COLLATE NOCASE LIMIT 1`
	selectLike = `SELECT word FROM stardict WHERE word LIKE ? ESCAPE '\'
		ORDER BY length(word), word LIMIT ?`
	countWords = `SELECT count(*) FROM stardict`
)

// SQLiteStore reads the ECDICT stardict table.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// OpenSQLite opens an ECDICT SQLite database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	return newSQLiteStore(db)
}

func newSQLiteStore(db *sql.DB) (*SQLiteStore, error) {
	// :memory: databases only live as long as their connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA cache_size = 8000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, word string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var (
		w                                 string
		phonetic, definition, translation sql.NullString
		pos, exchange, tag                sql.NullString
	)
	err := s.db.QueryRowContext(ctx, selectRecord, word).Scan(
		&w, &phonetic, &definition, &translation, &pos, &exchange, &tag)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", word, err)
	}

	return &Record{
		Word:        w,
		Phonetic:    phonetic.String,
		Definition:  definition.String,
		Translation: translation.String,
		Pos:         pos.String,
		Exchange:    exchange.String,
		Tag:         tag.String,
	}, nil
}

// ScanPrefix implements Store.
func (s *SQLiteStore) ScanPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	return s.scanLike(ctx, escapeLike(prefix)+"%", limit)
}

// ScanSubstring implements Store.
func (s *SQLiteStore) ScanSubstring(ctx context.Context, sub string, limit int) ([]string, error) {
	return s.scanLike(ctx, "%"+escapeLike(sub)+"%", limit)
}

func (s *SQLiteStore) scanLike(ctx context.Context, pattern string, limit int) ([]string, error) {
	if limit <= 0 {
		return []string{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, selectLike, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", pattern, err)
	}
	defer rows.Close()

	words := make([]string, 0, limit)
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, fmt.Errorf("scan %q: %w", pattern, err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %q: %w", pattern, err)
	}
	return words, nil
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, ErrClosed
	}

	var n int
	if err := s.db.QueryRowContext(ctx, countWords).Scan(&n); err != nil {
		return 0, fmt.Errorf("count words: %w", err)
	}
	return n, nil
}

// Close implements Store. Closing twice is a no-op.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
