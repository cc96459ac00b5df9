package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bastiangx/lango/internal/render"
	"github.com/bastiangx/lango/internal/setup"
	"github.com/bastiangx/lango/pkg/dictionary"
	"github.com/bastiangx/lango/pkg/freedict"
	"github.com/bastiangx/lango/pkg/lookup"
	"github.com/charmbracelet/log"
)

// options turns the flags into per-lookup options. Online mode implies the
// English definition since the remote source has no translations.
func (a *app) options() lookup.Options {
	return lookup.Options{
		ShowEnglish:  a.flags.english || a.flags.online,
		ShowExamples: a.flags.examples,
		ForceRemote:  a.flags.online,
		MaxExamples:  a.flags.maxExamples,
	}
}

func (a *app) renderer(w io.Writer) *render.Renderer {
	color := a.cfg.CLI.Color && !a.flags.noColor && os.Getenv("NO_COLOR") == ""
	return render.New(w, color)
}

// datasetPath is the --db flag, the configured path or the default file.
func (a *app) datasetPath() string {
	if a.flags.dbPath != "" {
		return a.paths.ExpandHome(a.flags.dbPath)
	}
	return setup.DatasetPath(a.cfg, a.paths)
}

// dataDir is where setup installs datasets. An explicit dataset location
// keeps installs next to it.
func (a *app) dataDir() string {
	if a.flags.dbPath != "" || a.cfg.Local.DatasetPath != "" {
		return filepath.Dir(a.datasetPath())
	}
	return a.paths.GetDataDir()
}

func (a *app) installer(out io.Writer) *setup.Installer {
	return setup.NewInstaller(a.cfg, a.dataDir(), out)
}

// recordDataset saves a freshly installed dataset location to the config
// when lango would not find it on its own.
func (a *app) recordDataset(installed string) {
	if installed == a.datasetPath() || a.flags.dbPath != "" {
		return
	}
	if err := a.cfg.SetDatasetPath(a.configPath, installed); err != nil {
		log.Warnf("Failed to save dataset path to config: %v", err)
	}
}

// session is an opened lookup service plus what must be closed after it.
type session struct {
	svc   *lookup.Service
	local *dictionary.Local
}

func (s *session) Close() {
	if s.local != nil {
		if err := s.local.Close(); err != nil {
			log.Debugf("Closing dictionary: %v", err)
		}
	}
}

// sessionParams controls how openSession treats a missing dataset.
type sessionParams struct {
	skipLocal bool
	prompt    bool
	in        io.Reader
	out       io.Writer
}

// openSession builds the lookup service. A missing dataset is offered for
// download when prompting is allowed and stdin is a terminal; otherwise
// lookups go to the remote source only. A dataset that exists but cannot be
// opened is an error.
func (a *app) openSession(ctx context.Context, p sessionParams) (*session, error) {
	s := &session{}

	var local, remote lookup.Dictionary
	if a.cfg.Remote.Enabled {
		remote = freedict.New(freedict.Options{
			Endpoint:  a.cfg.Remote.Endpoint,
			Timeout:   a.cfg.Remote.Timeout(),
			UserAgent: a.cfg.Remote.UserAgent,
		})
	}

	if !p.skipLocal {
		path := a.datasetPath()
		if !setup.Installed(path) && p.prompt && isTerminal(p.in) {
			if installed, err := a.firstRun(ctx, p.in, p.out); err == nil {
				path = installed
			} else if !errors.Is(err, setup.ErrCancelled) {
				log.Errorf("Dataset setup failed: %v", err)
			}
		}

		if setup.Installed(path) {
			d, err := dictionary.Open(path)
			if err != nil {
				return nil, fmt.Errorf("%w (run `lango setup` to reinstall the dataset)", err)
			}
			s.local = d
			local = d
		} else {
			log.Warnf("ECDICT dataset not found at %s, using the online dictionary only", path)
		}
	}

	if local == nil && remote == nil {
		log.Warn("No dictionary source available, every lookup will come back empty")
	}

	s.svc = lookup.NewService(local, remote, lookup.Config{
		SuggestionLimit: a.cfg.Lookup.SuggestionLimit,
		PrefetchRemote:  a.cfg.Lookup.PrefetchRemote,
	})
	return s, nil
}

// firstRun offers to download the dataset.
func (a *app) firstRun(ctx context.Context, in io.Reader, out io.Writer) (string, error) {
	if err := setup.Prompt(in, out); err != nil {
		return "", err
	}
	installed, err := a.installer(out).Download(ctx)
	if err != nil {
		return "", err
	}
	a.recordDataset(installed)
	return installed, nil
}
