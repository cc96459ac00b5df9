package dictionary

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const stardictSchema = `CREATE TABLE IF NOT EXISTS stardict (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word VARCHAR(64) COLLATE NOCASE NOT NULL UNIQUE,
	sw VARCHAR(64) COLLATE NOCASE,
	phonetic VARCHAR(64),
	definition TEXT,
	translation TEXT,
	pos VARCHAR(16),
	collins INTEGER DEFAULT 0,
	oxford INTEGER DEFAULT 0,
	tag VARCHAR(64),
	bnc INTEGER,
	frq INTEGER,
	exchange TEXT,
	detail TEXT,
	audio TEXT
)`

var fixtureRecords = []Record{
	{
		Word:        "apple",
		Phonetic:    "'æpl",
		Definition:  "n. fruit with red or yellow or green skin\nn. native Eurasian tree",
		Translation: "n. 苹果, 家伙",
		Pos:         "n:100",
		Exchange:    "s:apples",
		Tag:         "zk gk",
	},
	{Word: "apples", Translation: "n. 苹果（apple的复数）"},
	{Word: "applesauce", Translation: "n. 苹果酱"},
	{Word: "apply"},
	{Word: "appeal", Translation: "n. 呼吁, 上诉"},
	{Word: "pineapple", Translation: "n. 凤梨, 菠萝"},
	{Word: "abc"},
	{Word: "a_c"},
	{Word: "xzy"},
	{Word: "x%y"},
	{Word: `back\slash`},
	{Word: "backslash"},
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func fillSQLite(t *testing.T, db *sql.DB, recs []Record) {
	t.Helper()
	_, err := db.Exec(stardictSchema)
	require.NoError(t, err)
	for _, r := range recs {
		_, err := db.Exec(`INSERT INTO stardict (word, phonetic, definition, translation, pos, exchange, tag)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.Word, nullable(r.Phonetic), nullable(r.Definition), nullable(r.Translation),
			nullable(r.Pos), nullable(r.Exchange), nullable(r.Tag))
		require.NoError(t, err)
	}
}

func newMemSQLite(t *testing.T, recs []Record) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	s, err := newSQLiteStore(db)
	require.NoError(t, err)
	fillSQLite(t, s.db, recs)
	t.Cleanup(func() { s.Close() })
	return s
}

func writeSQLiteFile(t *testing.T, path string, recs []Record) {
	t.Helper()
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	fillSQLite(t, db, recs)
	require.NoError(t, db.Close())
}

// backends runs fn against every Store implementation filled with recs.
func backends(t *testing.T, recs []Record, fn func(t *testing.T, s Store)) {
	t.Run("sqlite", func(t *testing.T) { fn(t, newMemSQLite(t, recs)) })
	t.Run("trie", func(t *testing.T) { fn(t, NewTrieStore(recs)) })
}

// countingStore records how often each scan runs.
type countingStore struct {
	Store
	prefixScans    atomic.Int32
	substringScans atomic.Int32
}

func (c *countingStore) ScanPrefix(ctx context.Context, prefix string, limit int) ([]string, error) {
	c.prefixScans.Add(1)
	return c.Store.ScanPrefix(ctx, prefix, limit)
}

func (c *countingStore) ScanSubstring(ctx context.Context, sub string, limit int) ([]string, error) {
	c.substringScans.Add(1)
	return c.Store.ScanSubstring(ctx, sub, limit)
}
