package setup

import (
	"archive/zip"
	"bytes"
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/lango/internal/utils"
	"github.com/bastiangx/lango/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const datasetCSV = "word,phonetic,definition,translation,pos,collins,oxford,tag,bnc,frq,exchange,detail,audio\n" +
	"apple,'æpl,n. fruit,n. 苹果,,,,,,,s:apples,,\n" +
	"go,gәu,v. move,v. 去,,,,,,,p:went/d:gone,,\n"

func zipWith(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, dir, name string, body []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, body, 0o644))
	return path
}

func newInstaller(t *testing.T, url string) (*Installer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Setup.DatasetURL = url
	var out bytes.Buffer
	return NewInstaller(cfg, filepath.Join(t.TempDir(), "data"), &out), &out
}

func TestImportCSV(t *testing.T) {
	src := writeFile(t, t.TempDir(), "my-ecdict.CSV", []byte(datasetCSV))
	inst, out := newInstaller(t, "")

	path, err := inst.Import(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inst.DataDir, "ecdict.csv"), path)
	assert.Contains(t, out.String(), "(2 words)")

	n, err := Validate(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportSQLite(t *testing.T) {
	src := filepath.Join(t.TempDir(), "stardict.sqlite")
	db, err := sql.Open("sqlite", src)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE stardict (word TEXT, phonetic TEXT, definition TEXT, translation TEXT, pos TEXT, exchange TEXT, tag TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO stardict (word, translation) VALUES ('apple', 'n. 苹果')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	inst, _ := newInstaller(t, "")
	path, err := inst.Import(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inst.DataDir, "stardict.db"), path)
}

func TestImportZip(t *testing.T) {
	archive := zipWith(t, map[string]string{"ecdict/readme.txt": "hi", "ecdict/ecdict.csv": datasetCSV})
	src := writeFile(t, t.TempDir(), "ecdict.zip", archive)

	inst, _ := newInstaller(t, "")
	path, err := inst.Import(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inst.DataDir, "ecdict.csv"), path)
	assert.NoFileExists(t, filepath.Join(inst.DataDir, "ecdict", "ecdict.csv"))
}

func TestImportErrors(t *testing.T) {
	dir := t.TempDir()
	inst, _ := newInstaller(t, "")
	ctx := context.Background()

	_, err := inst.Import(ctx, filepath.Join(dir, "missing.db"))
	assert.ErrorContains(t, err, "does not exist")

	_, err = inst.Import(ctx, writeFile(t, dir, "words.txt", []byte("apple")))
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = inst.Import(ctx, writeFile(t, dir, "docs.zip", zipWith(t, map[string]string{"a.txt": "x"})))
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = inst.Import(ctx, writeFile(t, dir, "empty.csv", []byte("word,translation\n")))
	assert.ErrorIs(t, err, ErrEmptyDataset)
	assert.NoFileExists(t, filepath.Join(inst.DataDir, "ecdict.csv"), "invalid import is removed")

	_, err = inst.Import(ctx, writeFile(t, dir, "bad.db", bytes.Repeat([]byte{0}, 1024)))
	assert.ErrorContains(t, err, "wrong format")
}

func TestDownload(t *testing.T) {
	archive := zipWith(t, map[string]string{"ecdict.csv": datasetCSV})
	var agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/zip")
		w.Write(archive)
	}))
	defer srv.Close()

	inst, out := newInstaller(t, srv.URL+"/ecdict.zip")
	path, err := inst.Download(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(inst.DataDir, "ecdict.csv"), path)
	assert.Equal(t, "lango-cli/0.1", agent)
	assert.Contains(t, out.String(), "100%")
	assert.Contains(t, out.String(), "dataset installed")
	assert.NoFileExists(t, filepath.Join(inst.DataDir, "stardict.db.zip.tmp"))
}

func TestDownloadHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	inst, _ := newInstaller(t, srv.URL)
	_, err := inst.Download(context.Background())
	assert.ErrorContains(t, err, "HTTP 404")
}

func TestDownloadNotAZip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>captive portal</html>"))
	}))
	defer srv.Close()

	inst, _ := newInstaller(t, srv.URL)
	_, err := inst.Download(context.Background())
	assert.ErrorContains(t, err, "open archive")
}

func TestPrompt(t *testing.T) {
	tests := []struct {
		answer string
		want   error
	}{
		{"\n", nil},
		{"y\n", nil},
		{"YES\n", nil},
		{"", nil},
		{"n\n", ErrCancelled},
		{" No \n", ErrCancelled},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		err := Prompt(strings.NewReader(tt.answer), &out)
		if tt.want == nil {
			assert.NoError(t, err, "%q", tt.answer)
		} else {
			assert.ErrorIs(t, err, tt.want, "%q", tt.answer)
			assert.Contains(t, out.String(), "lango setup --import")
		}
		assert.Contains(t, out.String(), "[Y/n]")
	}
}

func TestDatasetPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, "data"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, "config"))
	t.Setenv("LOCALAPPDATA", filepath.Join(home, "data"))
	t.Setenv("APPDATA", filepath.Join(home, "config"))
	pr := utils.NewPathResolver()

	cfg := config.DefaultConfig()
	assert.Equal(t, filepath.Join(pr.GetDataDir(), "stardict.db"), DatasetPath(cfg, pr))

	require.NoError(t, os.MkdirAll(pr.GetDataDir(), 0o755))
	csv := writeFile(t, pr.GetDataDir(), "ecdict.csv", []byte(datasetCSV))
	assert.Equal(t, csv, DatasetPath(cfg, pr))
	assert.True(t, Installed(csv))
	assert.False(t, Installed(pr.GetDataDir()))

	cfg.Local.DatasetPath = "~/dicts/mine.db"
	assert.Equal(t, filepath.Join(home, "dicts", "mine.db"), DatasetPath(cfg, pr))
}
