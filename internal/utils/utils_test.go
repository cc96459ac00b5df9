package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidQuery(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"apple", true},
		{"  Apple  ", true},
		{"ice cream", true},
		{"mother-in-law", true},
		{"don't", true},
		{"苹果", true},
		{"", false},
		{"   ", false},
		{"1234", false},
		{"--", false},
		{"ab\x00c", false},
		{"\x1b[31mred", false},
		{strings.Repeat("a", MaxQueryLength+1), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsValidQuery(tt.in), "%q", tt.in)
	}
}

func TestSuggestionFilter(t *testing.T) {
	f := NewSuggestionFilter("apple")
	assert.False(t, f.ShouldInclude("Apple"))
	assert.True(t, f.ShouldInclude("apply"))
	assert.False(t, f.ShouldInclude("APPLY"))

	got := NewSuggestionFilter().Filter([]string{"cat", "Cat", "cart", "cat", "scat"})
	assert.Equal(t, []string{"cat", "cart", "scat"}, got)
}

func TestSuggestionRanks(t *testing.T) {
	assert.Equal(t, []uint16{1, 2, 3}, SuggestionRanks(3))
	assert.Empty(t, SuggestionRanks(0))
	assert.Empty(t, SuggestionRanks(-4))
}

func TestNonEmptyLines(t *testing.T) {
	text := "  n. apple\n\n  n. fruit \n\t\nv. pick"
	assert.Equal(t, []string{"n. apple", "n. fruit", "v. pick"}, NonEmptyLines(text, 0))
	assert.Equal(t, []string{"n. apple", "n. fruit"}, NonEmptyLines(text, 2))
	assert.Nil(t, NonEmptyLines(" \n ", 0))
}

func TestExtractHelpers(t *testing.T) {
	data := map[string]any{"n": int64(7), "b": true, "s": "x", "f": 1.5}

	n, ok := ExtractInt64(data, "n")
	assert.True(t, ok)
	assert.Equal(t, 7, n)
	_, ok = ExtractInt64(data, "f")
	assert.False(t, ok)

	b, ok := ExtractBool(data, "b")
	assert.True(t, ok)
	assert.True(t, b)

	s, ok := ExtractString(data, "s")
	assert.True(t, ok)
	assert.Equal(t, "x", s)
	_, ok = ExtractString(data, "missing")
	assert.False(t, ok)
}

func TestParseTOMLWithRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "c.toml")
	require.NoError(t, os.WriteFile(path, []byte("[lookup]\nmax_examples = 4\n"), 0o644))

	data, err := ParseTOMLWithRecovery(path)
	require.NoError(t, err)
	section, ok := ExtractSection(data, "lookup")
	require.True(t, ok)
	n, ok := ExtractInt64(section, "max_examples")
	assert.True(t, ok)
	assert.Equal(t, 4, n)

	_, err = ParseTOMLWithRecovery(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.csv")
	dst := filepath.Join(dir, "nested", "dst.csv")
	require.NoError(t, os.WriteFile(src, []byte("word\napple\n"), 0o644))

	require.NoError(t, CopyFile(src, dst))
	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "word\napple\n", string(got))

	assert.Error(t, CopyFile(filepath.Join(dir, "nope"), dst))
}

func TestCheckDirStatus(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	res := CheckDirStatus(dir)
	assert.True(t, res.Exists)
	assert.True(t, res.Writable)
	assert.NoError(t, res.Error)
	assert.True(t, FileExists(dir))
}

func TestPathResolver(t *testing.T) {
	pr := &PathResolver{homeDir: "/home/u", configDir: "/home/u/.config/lango", dataDir: "/home/u/.local/share/lango"}

	assert.Equal(t, "/home/u", pr.ExpandHome("~"))
	assert.Equal(t, filepath.Join("/home/u", "dict.db"), pr.ExpandHome("~/dict.db"))
	assert.Equal(t, "/abs/dict.db", pr.ExpandHome("/abs/dict.db"))
	assert.Equal(t, []string{"/home/u/.local/share/lango", filepath.Join("/home/u/.config/lango", "data")}, pr.DataCandidates())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stardict.db"), []byte("x"), 0o644))
	found, err := pr.FindFileInPaths("stardict.db", []string{"/does/not/exist", dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "stardict.db"), found)

	_, err = pr.FindFileInPaths("stardict.db", []string{"/does/not/exist"})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
