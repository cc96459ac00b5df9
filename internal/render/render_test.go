package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMorphology(t *testing.T) {
	forms := ParseMorphology("p:went/d:gone/i:going/3:goes/x:skip/broken/s:")
	assert.Equal(t, []Form{
		{"past", "went"},
		{"past participle", "gone"},
		{"present participle", "going"},
		{"3rd person", "goes"},
	}, forms)
	assert.Empty(t, ParseMorphology(""))
	assert.Equal(t, []Form{{"lemma", "be"}, {"lemma form", "p"}}, ParseMorphology("0:be/1:p"))
}

func TestFormatPhonetic(t *testing.T) {
	assert.Equal(t, "/'æpl/", FormatPhonetic("'æpl"))
	assert.Equal(t, "/həˈləʊ/", FormatPhonetic("/həˈləʊ/"))
	assert.Equal(t, "[ɡəʊ]", FormatPhonetic("[ɡəʊ]"))
}

func TestFooter(t *testing.T) {
	assert.Equal(t, "── ECDICT (local) · 1.2ms", Footer(lookup.ProvenanceLocal, 1234*time.Microsecond))
	assert.Equal(t, "── Free Dictionary API (online) · 250.0ms", Footer(lookup.ProvenanceRemote, 250*time.Millisecond))
}

func render(t *testing.T, query string, res lookup.Result, opts lookup.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, New(&buf, false).Result(query, res, opts, 3*time.Millisecond))
	return buf.String()
}

func TestRenderFound(t *testing.T) {
	entry := &lookup.Entry{
		Word:        "go",
		Phonetic:    "gәu",
		Translation: "v. 去, 走\n\n  n. 围棋  ",
		Definition:  "1\n2\n3\n4\n5\n6\n7",
		Morphology:  "p:went/d:gone",
		Examples: []lookup.Example{
			{English: "Let's go.", Chinese: "我们走吧。"},
			{English: "Go away."},
		},
		Source: lookup.ProvenanceLocal,
	}

	out := render(t, "go", lookup.Found{Entry: entry}, lookup.Options{ShowEnglish: true, ShowExamples: true})
	assert.Contains(t, out, "go  /gәu/")
	assert.Contains(t, out, "    v. 去, 走\n    n. 围棋\n")
	assert.Contains(t, out, "    5\n")
	assert.NotContains(t, out, "    6\n", "definition is capped")
	assert.Contains(t, out, "    1. Let's go.\n       我们走吧。\n    2. Go away.\n")
	assert.Contains(t, out, "past: went  past participle: gone")
	assert.Contains(t, out, "── ECDICT (local) · 3.0ms")
	assert.NotContains(t, out, "\x1b[", "ascii profile has no escapes")
}

func TestRenderFoundHidesOptionalSections(t *testing.T) {
	entry := &lookup.Entry{
		Word:       "go",
		Definition: "move",
		Examples:   []lookup.Example{{English: "Go away."}},
		Source:     lookup.ProvenanceRemote,
	}
	out := render(t, "go", lookup.Found{Entry: entry}, lookup.Options{})
	assert.NotContains(t, out, "Definition")
	assert.NotContains(t, out, "Examples")
	assert.NotContains(t, out, "Translation")
	assert.NotContains(t, out, "Forms")
	assert.Contains(t, out, "Free Dictionary API (online)")
}

func TestRenderNotFound(t *testing.T) {
	out := render(t, "xyzzzz", lookup.NotFound{}, lookup.Options{})
	assert.Contains(t, out, `✗ not found: "xyzzzz"`)
	assert.Contains(t, out, "--online")
}

func TestRenderSuggestions(t *testing.T) {
	out := render(t, "appel", lookup.Suggestions{Words: []string{"apple", "appeal"}}, lookup.Options{})
	assert.Contains(t, out, "did you mean:")
	i, j := strings.Index(out, "→ apple"), strings.Index(out, "→ appeal")
	assert.True(t, i >= 0 && j > i, out)
}

func TestRenderUnknownResult(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, false).Result("x", nil, lookup.Options{}, 0)
	assert.Error(t, err)
	assert.Zero(t, buf.Len())
}
