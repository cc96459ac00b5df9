// Package cli wires lango's commands: one-shot lookups, the interactive
// session, dataset setup and the IPC and MCP servers.
package cli

import (
	"context"
	"strings"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// Version is reported by --version.
var Version = "0.1.0"

// flags holds the parsed global and root flags for one run.
type flags struct {
	configPath  string
	dbPath      string
	debug       bool
	noColor     bool
	english     bool
	examples    bool
	online      bool
	maxExamples int
	interactive bool
}

// app is the state shared by all commands of one invocation.
type app struct {
	flags      flags
	cfg        *config.Config
	configPath string
	paths      *utils.PathResolver
}

// NewRootCommand builds the lango command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lango [flags] WORD...",
		Short: "Fast English dictionary lookups",
		Long: `lango looks up English words and phrases in the offline ECDICT dataset
and falls back to the Free Dictionary API when the dataset has nothing.

Example usage:
  lango hello                 # look up a word
  lango "machine learning"    # look up a phrase
  lango -e hello              # include the English definition
  lango -x -n 5 hello         # include up to 5 examples
  lango --online hello        # ask the Free Dictionary API only
  lango -i                    # interactive session`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.interactive {
				return a.runInteractive(cmd)
			}
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return cmd.Help()
			}
			return a.runLookup(cmd, query)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "config file (default is <config dir>/lango/config.toml)")
	pf.StringVar(&a.flags.dbPath, "db", "", "ECDICT dataset file, .db or .csv (overrides [local] dataset_path)")
	pf.BoolVarP(&a.flags.debug, "debug", "d", false, "debug logging")
	pf.BoolVar(&a.flags.noColor, "no-color", false, "disable colored output")
	pf.BoolVarP(&a.flags.english, "english", "e", false, "show the English definition")
	pf.BoolVarP(&a.flags.examples, "examples", "x", false, "show usage examples")
	pf.BoolVar(&a.flags.online, "online", false, "use the Free Dictionary API only (implies --english)")
	pf.IntVarP(&a.flags.maxExamples, "num-examples", "n", config.DefaultConfig().Lookup.MaxExamples, "maximum number of examples")

	root.Flags().BoolVarP(&a.flags.interactive, "interactive", "i", false, "look up words line by line from stdin")

	root.AddCommand(
		newSetupCommand(a),
		newServeCommand(a),
		newMCPCommand(a),
	)
	return root
}

// Execute runs the lango command tree with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// init loads config and sets up logging. Flags left at their defaults take
// their values from the config file.
func (a *app) init(cmd *cobra.Command) error {
	cfg, path, err := config.LoadConfigWithPriority(a.flags.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configPath = path
	a.paths = utils.NewPathResolver()

	logger.Setup(cfg.CLI.LogLevel, a.flags.debug)
	log.Debug("config loaded", "path", config.GetActiveConfigPath(path))
	log.Debug("runtime", "paths", a.paths.GetRuntimeInfo())

	fs := cmd.Flags()
	if !fs.Changed("num-examples") {
		a.flags.maxExamples = cfg.Lookup.MaxExamples
	}
	if !fs.Changed("english") {
		a.flags.english = cfg.Lookup.ShowEnglish
	}
	if !fs.Changed("examples") {
		a.flags.examples = cfg.Lookup.ShowExamples
	}
	if a.flags.maxExamples < 0 {
		log.Warnf("Negative --num-examples %d, using 0", a.flags.maxExamples)
		a.flags.maxExamples = 0
	}
	return nil
}
