// Package render prints lookup results to a terminal with lipgloss styles.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// maxDefinitionLines caps the English definition block.
const maxDefinitionLines = 5

const onlineHint = "hint: try --online to ask the Free Dictionary API"

type styles struct {
	word      lipgloss.Style
	phonetic  lipgloss.Style
	heading   lipgloss.Style
	trans     lipgloss.Style
	def       lipgloss.Style
	dim       lipgloss.Style
	miss      lipgloss.Style
	query     lipgloss.Style
	arrow     lipgloss.Style
	formLabel lipgloss.Style
}

// Renderer writes results to one output.
type Renderer struct {
	w  io.Writer
	lg *lipgloss.Renderer
	s  styles
}

// New creates a Renderer for w. With color off the ASCII profile is forced,
// otherwise the profile is detected from w.
func New(w io.Writer, color bool) *Renderer {
	lg := lipgloss.NewRenderer(w)
	if !color {
		lg.SetColorProfile(termenv.Ascii)
	}
	return &Renderer{
		w:  w,
		lg: lg,
		s: styles{
			word:      lg.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
			phonetic:  lg.NewStyle().Foreground(lipgloss.Color("11")),
			heading:   lg.NewStyle().Bold(true).Underline(true),
			trans:     lg.NewStyle().Foreground(lipgloss.Color("10")),
			def:       lg.NewStyle().Foreground(lipgloss.Color("14")),
			dim:       lg.NewStyle().Faint(true),
			miss:      lg.NewStyle().Foreground(lipgloss.Color("9")),
			query:     lg.NewStyle().Foreground(lipgloss.Color("11")),
			arrow:     lg.NewStyle().Foreground(lipgloss.Color("14")),
			formLabel: lg.NewStyle().Faint(true).Italic(true),
		},
	}
}

// Result prints res. The query is echoed for misses.
func (r *Renderer) Result(query string, res lookup.Result, opts lookup.Options, elapsed time.Duration) error {
	var b strings.Builder
	switch v := res.(type) {
	case lookup.Found:
		r.entry(&b, v.Entry, opts, elapsed)
	case lookup.Suggestions:
		r.suggestions(&b, query, v.Words)
	case lookup.NotFound:
		r.notFound(&b, query)
	default:
		return fmt.Errorf("render: unknown result %T", res)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) entry(b *strings.Builder, e *lookup.Entry, opts lookup.Options, elapsed time.Duration) {
	b.WriteString("\n")
	head := "  " + r.s.word.Render(e.Word)
	if e.Phonetic != "" {
		head += "  " + r.s.phonetic.Render(FormatPhonetic(e.Phonetic))
	}
	b.WriteString(head + "\n\n")

	if lines := utils.NonEmptyLines(e.Translation, 0); len(lines) > 0 {
		r.section(b, "Translation")
		for _, line := range lines {
			b.WriteString("    " + r.s.trans.Render(line) + "\n")
		}
		b.WriteString("\n")
	}

	if opts.ShowEnglish {
		if lines := utils.NonEmptyLines(e.Definition, maxDefinitionLines); len(lines) > 0 {
			r.section(b, "Definition")
			for _, line := range lines {
				b.WriteString("    " + r.s.def.Render(line) + "\n")
			}
			b.WriteString("\n")
		}
	}

	if opts.ShowExamples && len(e.Examples) > 0 {
		r.section(b, "Examples")
		for i, ex := range e.Examples {
			fmt.Fprintf(b, "    %d. %s\n", i+1, ex.English)
			if ex.Chinese != "" {
				b.WriteString("       " + r.s.dim.Render(ex.Chinese) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if forms := ParseMorphology(e.Morphology); len(forms) > 0 {
		r.section(b, "Forms")
		parts := make([]string, len(forms))
		for i, f := range forms {
			parts[i] = r.s.formLabel.Render(f.Label+":") + " " + f.Value
		}
		b.WriteString("    " + strings.Join(parts, "  ") + "\n\n")
	}

	b.WriteString("  " + r.s.dim.Render(Footer(e.Source, elapsed)) + "\n\n")
}

func (r *Renderer) section(b *strings.Builder, title string) {
	b.WriteString("  " + r.s.heading.Render(title) + "\n")
}

func (r *Renderer) notFound(b *strings.Builder, query string) {
	b.WriteString("\n")
	b.WriteString(r.missLine(query))
	b.WriteString("  " + r.s.dim.Render(onlineHint) + "\n\n")
}

func (r *Renderer) suggestions(b *strings.Builder, query string, words []string) {
	b.WriteString("\n")
	b.WriteString(r.missLine(query))
	b.WriteString("  did you mean:\n")
	for _, w := range words {
		b.WriteString("    " + r.s.arrow.Render("→") + " " + w + "\n")
	}
	b.WriteString("\n  " + r.s.dim.Render(onlineHint) + "\n\n")
}

func (r *Renderer) missLine(query string) string {
	return fmt.Sprintf("  %s not found: %s\n\n", r.s.miss.Render("✗"), r.s.query.Render(`"`+query+`"`))
}

// FormatPhonetic wraps p in slashes unless it is already delimited.
func FormatPhonetic(p string) string {
	if strings.HasPrefix(p, "/") || strings.HasPrefix(p, "[") {
		return p
	}
	return "/" + p + "/"
}

// Footer is the provenance and timing line, e.g. "── ECDICT (local) · 1.2ms".
func Footer(source lookup.Provenance, elapsed time.Duration) string {
	ms := float64(elapsed.Microseconds()) / 1000
	return fmt.Sprintf("── %s · %.1fms", source, ms)
}
