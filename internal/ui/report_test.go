package ui

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/dupes/internal/config"
	"github.com/bamsammich/dupes/internal/engine"
)

var testGroups = []engine.Group{
	{Digest: strings.Repeat("A", 128), Size: 5, Paths: []string{"/d/a", "/d/b"}},
	{Digest: strings.Repeat("B", 128), Size: 0, Paths: []string{"/d/with space", "/d/tab\there"}},
}

const wantReport = "" +
	"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA\n" +
	"\t\"/d/a\"\n" +
	"\t\"/d/b\"\n" +
	"\n" +
	"BBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBBB\n" +
	"\t\"/d/with space\"\n" +
	"\t\"/d/tab\\there\"\n" +
	"\n"

func TestReporterPlain(t *testing.T) {
	var out, log, diag bytes.Buffer
	r := NewReporter(&out, &log, &diag, nil)

	require.NoError(t, r.Report(testGroups))
	assert.Equal(t, wantReport, out.String())
	assert.Equal(t, wantReport, log.String(), "log matches undecorated stdout")
	assert.Empty(t, diag.String())
}

func TestReporterThemedLogStaysPlain(t *testing.T) {
	var out, log, diag bytes.Buffer
	r := NewReporter(&out, &log, &diag, NewTheme(config.ThemeConfig{}))

	require.NoError(t, r.Report(testGroups))
	assert.Equal(t, wantReport, log.String())
	assert.NotContains(t, log.String(), "\x1b[")
	assert.Contains(t, out.String(), `"/d/with space"`)
}

func TestReporterNoGroups(t *testing.T) {
	var out, log bytes.Buffer
	r := NewReporter(&out, &log, &bytes.Buffer{}, nil)
	require.NoError(t, r.Report(nil))
	assert.Empty(t, out.String())
	assert.Empty(t, log.String())
}

func TestReporterNilLog(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, nil, &bytes.Buffer{}, nil)
	require.NoError(t, r.Report(testGroups))
	assert.Equal(t, wantReport, out.String())
}

type failingWriter struct{ writes int }

func (f *failingWriter) Write([]byte) (int, error) {
	f.writes++
	return 0, errors.New("disk full")
}

func TestReporterLogWriteFailure(t *testing.T) {
	var out, diag bytes.Buffer
	log := &failingWriter{}
	r := NewReporter(&out, log, &diag, nil)

	require.NoError(t, r.Report(testGroups))
	assert.Equal(t, wantReport, out.String(), "stdout continues after log failure")
	assert.Equal(t, "Error: disk full\n", diag.String(), "one diagnostic only")
	assert.Equal(t, 1, log.writes)
	assert.EqualError(t, r.LogErr(), "disk full")
}

func TestReporterStdoutFailure(t *testing.T) {
	r := NewReporter(&failingWriter{}, nil, &bytes.Buffer{}, nil)
	err := r.Report(testGroups)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing report")
}

func TestReporterTiming(t *testing.T) {
	var out bytes.Buffer
	r := NewReporter(&out, nil, &bytes.Buffer{}, nil)
	r.Timing(1500 * time.Millisecond)
	assert.Equal(t, "it took 1.500 seconds\n", out.String())
}

func TestOpenLogReplacesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("\x00\xffstale bytes"), 0o644))

	var diag bytes.Buffer
	w := OpenLog(path, &diag)
	require.NotNil(t, w)
	r := NewReporter(&bytes.Buffer{}, w, &diag, nil)
	require.NoError(t, r.Report(testGroups))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, wantReport, string(data))
	assert.Empty(t, diag.String())
}

func TestOpenLogCreates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log.txt")
	w := OpenLog(path, &bytes.Buffer{})
	require.NotNil(t, w)
	require.NoError(t, w.Close())
	assert.FileExists(t, path)
}

func TestOpenLogAppendsWhenRemoveFails(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory write permission")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "log.txt")
	require.NoError(t, os.WriteFile(path, []byte("old\n"), 0o644))
	require.NoError(t, os.Chmod(dir, 0o555))
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	var diag bytes.Buffer
	w := OpenLog(path, &diag)
	require.NotNil(t, w)
	_, err := w.Write([]byte("new\n"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Contains(t, diag.String(), "Error:")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old\nnew\n", string(data))
}

func TestOpenLogUnopenable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "log.txt")
	var diag bytes.Buffer
	assert.Nil(t, OpenLog(path, &diag))
	assert.Contains(t, diag.String(), "Error:")
}

func TestNewThemeOverrides(t *testing.T) {
	red := "#ff0000"
	th := NewTheme(config.ThemeConfig{Digest: &red})
	assert.Equal(t, lipgloss.Color("#ff0000"), th.Digest.GetForeground())
	assert.Equal(t, lipgloss.Color(colorBright), th.Path.GetForeground())
}
