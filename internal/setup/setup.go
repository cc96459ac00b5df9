// Package setup provisions the local ECDICT dataset: locating it, importing
// it from a file, downloading the release archive and validating the result.
package setup

import (
	"archive/zip"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bastiangx/lango/internal/logger"
	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/config"
	"github.com/bastiangx/lango/pkg/dictionary"
	"github.com/charmbracelet/log"
)

var (
	// ErrCancelled means the user declined the download.
	ErrCancelled = errors.New("setup cancelled")

	// ErrNoDataset means a source file or archive holds no usable dataset.
	ErrNoDataset = errors.New("no dataset found")

	// ErrEmptyDataset means the dataset opened but holds no words.
	ErrEmptyDataset = errors.New("dataset is empty")
)

const (
	sqliteFileName = "stardict.db"
	csvFileName    = "ecdict.csv"
)

// DatasetPath resolves which dataset file lango should open. An explicit
// config path wins. Otherwise the first existing default file in the data
// candidates is used, falling back to <data dir>/stardict.db.
func DatasetPath(cfg *config.Config, pr *utils.PathResolver) string {
	if cfg != nil && cfg.Local.DatasetPath != "" {
		return pr.ExpandHome(cfg.Local.DatasetPath)
	}
	for _, name := range []string{sqliteFileName, csvFileName} {
		if path, err := pr.FindFileInPaths(name, pr.DataCandidates()); err == nil {
			return path
		}
	}
	return filepath.Join(pr.GetDataDir(), sqliteFileName)
}

// Installed reports whether a dataset file exists at path.
func Installed(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Validate opens the dataset and returns its word count.
func Validate(ctx context.Context, path string) (int, error) {
	store, err := dictionary.OpenStore(path)
	if err != nil {
		return 0, fmt.Errorf("dataset %s is damaged or has the wrong format: %w", path, err)
	}
	defer store.Close()

	n, err := store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("dataset %s is damaged or has the wrong format: %w", path, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrEmptyDataset)
	}
	return n, nil
}

// Prompt asks whether to download the dataset now. Anything but "n" or "no"
// counts as yes.
func Prompt(in io.Reader, out io.Writer) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "  lango needs the ECDICT offline dataset (770,000+ entries)")
	fmt.Fprintln(out, "  the first download is about 180MB")
	fmt.Fprintln(out)
	fmt.Fprint(out, "  Download now? [Y/n]: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read answer: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  run `lango setup` later to download the dataset,")
		fmt.Fprintln(out, "  or download it yourself and run `lango setup --import <path>`")
		return ErrCancelled
	}
	return nil
}

// Installer places datasets into a data directory.
type Installer struct {
	DataDir   string
	URL       string
	UserAgent string
	Client    *http.Client
	// Out receives user-facing progress messages.
	Out io.Writer

	log *log.Logger
}

// NewInstaller builds an Installer from the setup config.
func NewInstaller(cfg *config.Config, dataDir string, out io.Writer) *Installer {
	if out == nil {
		out = io.Discard
	}
	return &Installer{
		DataDir:   dataDir,
		URL:       cfg.Setup.DatasetURL,
		UserAgent: cfg.Remote.UserAgent,
		Client:    &http.Client{Timeout: cfg.Setup.DownloadTimeout()},
		Out:       out,
		log:       logger.New("setup"),
	}
}

// Import installs the dataset at src. Zip archives are unpacked, other
// supported files are copied. It returns the installed path.
func (i *Installer) Import(ctx context.Context, src string) (string, error) {
	if !Installed(src) {
		return "", fmt.Errorf("file does not exist: %s", src)
	}
	if err := i.prepareDataDir(); err != nil {
		return "", err
	}

	var dest string
	ext := strings.ToLower(filepath.Ext(src))
	switch {
	case ext == ".zip":
		var err error
		if dest, err = i.extract(src); err != nil {
			return "", err
		}
	case isDatasetExt(ext):
		dest = i.destFor(ext)
		if err := utils.CopyFile(src, dest); err != nil {
			return "", fmt.Errorf("copy %s -> %s: %w", src, dest, err)
		}
	default:
		return "", fmt.Errorf("%w: %s (expected .zip or one of %v)", ErrNoDataset, src, dictionary.SupportedExtensions())
	}

	n, err := Validate(ctx, dest)
	if err != nil {
		os.Remove(dest)
		return "", err
	}
	fmt.Fprintf(i.Out, "  dataset imported: %s (%d words)\n", dest, n)
	return dest, nil
}

// Download fetches the release archive, unpacks it and validates the
// dataset. It returns the installed path.
func (i *Installer) Download(ctx context.Context) (string, error) {
	if err := i.prepareDataDir(); err != nil {
		return "", err
	}

	fmt.Fprintf(i.Out, "\n  downloading ECDICT dataset\n  from: %s\n\n", i.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.URL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if i.UserAgent != "" {
		req.Header.Set("User-Agent", i.UserAgent)
	}

	start := time.Now()
	resp, err := i.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download failed, check your network connection: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download failed: HTTP %d", resp.StatusCode)
	}

	tmp := filepath.Join(i.DataDir, sqliteFileName+".zip.tmp")
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}
	defer os.Remove(tmp)

	pw := &progressWriter{w: f, total: resp.ContentLength, out: i.Out}
	if _, err := io.Copy(pw, resp.Body); err != nil {
		f.Close()
		return "", fmt.Errorf("download interrupted: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	i.log.Debug("download finished", "bytes", pw.written, "took", time.Since(start))

	fmt.Fprintln(i.Out, "  unpacking...")
	dest, err := i.extract(tmp)
	if err != nil {
		return "", err
	}

	n, err := Validate(ctx, dest)
	if err != nil {
		os.Remove(dest)
		return "", err
	}
	fmt.Fprintf(i.Out, "  dataset installed: %s (%d words)\n\n", dest, n)
	return dest, nil
}

// extract copies the first dataset member of the archive into the data dir.
// Member names never become paths.
func (i *Installer) extract(zipPath string) (string, error) {
	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("open archive %s: %w", zipPath, err)
	}
	defer zr.Close()

	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(member.Name))
		if !isDatasetExt(ext) {
			continue
		}

		dest := i.destFor(ext)
		i.log.Debug("extracting", "member", member.Name, "dest", dest)
		if err := extractMember(member, dest); err != nil {
			return "", err
		}
		return dest, nil
	}
	return "", fmt.Errorf("%w in archive %s", ErrNoDataset, zipPath)
}

func extractMember(member *zip.File, dest string) error {
	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("open %s: %w", member.Name, err)
	}
	defer rc.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".extract-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		return fmt.Errorf("extract %s: %w", member.Name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dest)
}

// prepareDataDir creates the data dir and checks that it is writable.
func (i *Installer) prepareDataDir() error {
	status := utils.CheckDirStatus(i.DataDir)
	if status.Error != nil {
		return fmt.Errorf("create data dir: %w", status.Error)
	}
	if !status.Writable {
		return fmt.Errorf("data dir %s is not writable", i.DataDir)
	}
	return nil
}

func (i *Installer) destFor(ext string) string {
	if ext == ".csv" {
		return filepath.Join(i.DataDir, csvFileName)
	}
	return filepath.Join(i.DataDir, sqliteFileName)
}

func isDatasetExt(ext string) bool {
	for _, e := range dictionary.SupportedExtensions() {
		if e == ext {
			return true
		}
	}
	return false
}

// progressWriter reports download progress in 10% steps, or every 10MB when
// the size is unknown.
type progressWriter struct {
	w        io.Writer
	total    int64
	written  int64
	reported int64
	out      io.Writer
}

const unknownSizeStep = 10 << 20

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.written += int64(n)

	if p.total > 0 {
		pct := p.written * 100 / p.total
		if step := pct / 10 * 10; step > p.reported {
			p.reported = step
			fmt.Fprintf(p.out, "  %3d%%  %s / %s\n", step, mb(p.written), mb(p.total))
		}
	} else if p.written-p.reported >= unknownSizeStep {
		p.reported = p.written
		fmt.Fprintf(p.out, "  %s\n", mb(p.written))
	}
	return n, err
}

func mb(n int64) string {
	return fmt.Sprintf("%.1fMB", float64(n)/(1<<20))
}
