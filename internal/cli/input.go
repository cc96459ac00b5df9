package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/lango/internal/render"
	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Lookuper is the part of lookup.Service the interactive session needs.
type Lookuper interface {
	LookupTimed(ctx context.Context, query string, opts lookup.Options) (lookup.Result, time.Duration, error)
}

// InputHandler runs an interactive session: every non-empty line read from
// in is looked up with the same options and rendered.
type InputHandler struct {
	svc          Lookuper
	renderer     *render.Renderer
	opts         lookup.Options
	in           io.Reader
	prompt       io.Writer
	requestCount int
}

// NewInputHandler creates a session. The prompt goes to prompt so results
// on the renderer's writer stay clean.
func NewInputHandler(svc Lookuper, r *render.Renderer, opts lookup.Options, in io.Reader, prompt io.Writer) *InputHandler {
	return &InputHandler{
		svc:      svc,
		renderer: r,
		opts:     opts,
		in:       in,
		prompt:   prompt,
	}
}

// Start reads lines until EOF, "quit" or "exit". Lookup failures are
// logged and the session continues.
func (h *InputHandler) Start(ctx context.Context) error {
	reader := bufio.NewReader(h.in)
	fmt.Fprintln(h.prompt, "lango interactive mode, type a word and press Enter (Ctrl+D to exit)")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(h.prompt, "> ")
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		query := strings.TrimSpace(line)
		switch {
		case query == "quit" || query == "exit":
			return nil
		case query != "":
			h.handleInput(ctx, query)
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(h.prompt)
			log.Debug("Session ended", "lookups", h.requestCount)
			return nil
		}
	}
}

func (h *InputHandler) handleInput(ctx context.Context, query string) {
	if !utils.IsValidQuery(query) {
		log.Warnf("Not a word: %q", query)
		return
	}
	h.requestCount++

	res, elapsed, err := h.svc.LookupTimed(ctx, query, h.opts)
	if err != nil {
		log.Error("Lookup failed", "query", query, "err", err)
		return
	}
	log.Debugf("Took [ %v ] for %q", elapsed, query)

	if err := h.renderer.Result(query, res, h.opts, elapsed); err != nil {
		log.Errorf("Writing result: %v", err)
	}
}

// runInteractive opens the dictionaries once and starts a session on stdin.
func (a *app) runInteractive(cmd *cobra.Command) error {
	ctx := cmd.Context()
	opts := a.options()

	s, err := a.openSession(ctx, sessionParams{
		skipLocal: opts.ForceRemote,
		prompt:    true,
		in:        cmd.InOrStdin(),
		out:       cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer s.Close()

	h := NewInputHandler(s.svc, a.renderer(cmd.OutOrStdout()), opts, cmd.InOrStdin(), cmd.ErrOrStderr())
	return h.Start(ctx)
}
