package freedict

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ lookup.Dictionary = (*Dictionary)(nil)

const helloBody = `[{
	"word": "hello",
	"phonetics": [
		{"audio": "https://example.com/hello-uk.mp3"},
		{"text": "/həˈləʊ/", "audio": "https://example.com/hello-us.mp3"}
	],
	"meanings": [
		{
			"partOfSpeech": "noun",
			"definitions": [
				{"definition": "\"Hello!\" or an equivalent greeting.", "example": "She gave a cheerful hello."}
			]
		},
		{
			"partOfSpeech": "interjection",
			"definitions": [
				{"definition": "A greeting.", "example": "Hello, everyone."},
				{"definition": "", "example": ""},
				{"definition": "Used to attract attention."}
			]
		},
		{
			"partOfSpeech": "noun",
			"definitions": [{"definition": "A call of hello."}]
		}
	]
}, {
	"word": "hello",
	"meanings": [{"partOfSpeech": "verb", "definitions": [{"definition": "ignored", "example": "ignored"}]}]
}]`

func serve(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupMapsFirstEntry(t *testing.T) {
	var gotPath, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(helloBody))
	}))
	defer srv.Close()

	d := New(Options{Endpoint: srv.URL + "/"})
	entry, err := d.Lookup(context.Background(), "hello")
	require.NoError(t, err)
	require.NotNil(t, entry)

	assert.Equal(t, "/hello", gotPath)
	assert.Equal(t, DefaultUserAgent, gotAgent)

	assert.Equal(t, "hello", entry.Word)
	assert.Equal(t, "/həˈləʊ/", entry.Phonetic, "first non-empty phonetics text")
	assert.Equal(t, "noun, interjection", entry.PartOfSpeech)
	assert.Equal(t, "\"Hello!\" or an equivalent greeting.\nA greeting.\nUsed to attract attention.\nA call of hello.", entry.Definition)
	assert.Equal(t, []lookup.Example{
		{English: "She gave a cheerful hello."},
		{English: "Hello, everyone."},
	}, entry.Examples)
	assert.Empty(t, entry.Translation)
	assert.Equal(t, lookup.ProvenanceRemote, entry.Source)
}

func TestLookupPrefersTopLevelPhonetic(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"word":"go","phonetic":"/ɡəʊ/","phonetics":[{"text":"/ɡoʊ/"}]}]`)
	entry, err := New(Options{Endpoint: srv.URL}).Lookup(context.Background(), "go")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "/ɡəʊ/", entry.Phonetic)
	assert.Empty(t, entry.Definition)
	assert.Empty(t, entry.PartOfSpeech)
	assert.Empty(t, entry.Examples)
}

func TestLookupEmptyWordFallsBackToTerm(t *testing.T) {
	srv := serve(t, http.StatusOK, `[{"word":"","meanings":[]}]`)
	entry, err := New(Options{Endpoint: srv.URL}).Lookup(context.Background(), "ice cream")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "ice cream", entry.Word)
}

func TestLookupEscapesTerm(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := New(Options{Endpoint: srv.URL}).Lookup(context.Background(), "ice cream/a?b")
	require.NoError(t, err)
	assert.Equal(t, "/ice%20cream%2Fa%3Fb", gotPath)
}

func TestLookupFailuresMapToNil(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"not found", http.StatusNotFound, `{"title":"No Definitions Found"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"rate limited", http.StatusTooManyRequests, ``},
		{"malformed json", http.StatusOK, `[{"word":`},
		{"wrong shape", http.StatusOK, `{"word":"hello"}`},
		{"empty array", http.StatusOK, `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, tt.status, tt.body)
			entry, err := New(Options{Endpoint: srv.URL}).Lookup(context.Background(), "hello")
			assert.NoError(t, err)
			assert.Nil(t, entry)
		})
	}
}

func TestFetchRejectsOversizedBody(t *testing.T) {
	srv := serve(t, http.StatusOK, "["+strings.Repeat(" ", maxBodySize)+"]")
	d := New(Options{Endpoint: srv.URL})

	_, err := d.fetch(context.Background(), "hello")
	assert.ErrorIs(t, err, errTooLarge)

	entry, err := d.Lookup(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLookupTimeoutIsSilent(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	d := New(Options{Endpoint: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	entry, err := d.Lookup(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Nil(t, entry)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestLookupUnreachableIsSilent(t *testing.T) {
	srv := serve(t, http.StatusOK, helloBody)
	srv.Close()

	entry, err := New(Options{Endpoint: srv.URL}).Lookup(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestLookupCancelledContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(helloBody))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entry, err := New(Options{Endpoint: srv.URL}).Lookup(ctx, "hello")
	assert.NoError(t, err)
	assert.Nil(t, entry)
	assert.Zero(t, hits.Load())
}

func TestFuzzySearchAndAvailability(t *testing.T) {
	d := New(Options{})
	got, err := d.FuzzySearch(context.Background(), "helo", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, d.IsAvailable())
	assert.Equal(t, "Free Dictionary API", d.Name())
	assert.Equal(t, DefaultEndpoint, d.endpoint)
}
