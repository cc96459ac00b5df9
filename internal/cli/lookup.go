package cli

import (
	"github.com/spf13/cobra"
)

// runLookup answers a single query and prints it to stdout.
func (a *app) runLookup(cmd *cobra.Command, query string) error {
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

	res, elapsed, err := s.svc.LookupTimed(ctx, query, opts)
	if err != nil {
		return err
	}
	return a.renderer(cmd.OutOrStdout()).Result(query, res, opts, elapsed)
}
