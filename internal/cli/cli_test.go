package cli

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "第一章 开始\n从前有座山。\n"

func setupEnv(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("DATABASE_PATH", filepath.Join(dir, "cli.db"))
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("TASKS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("FETCH_BASE_DELAY", "1ms")
	t.Setenv("FETCH_RETRIES", "1")
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand("test")
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newSource(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/book.txt" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(sample)))
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write([]byte(sample))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCommand_WritesOutDir(t *testing.T) {
	setupEnv(t)
	srv := newSource(t)
	outDir := filepath.Join(t.TempDir(), "out")

	stdout, _, err := execute(t, "fetch", "--out-dir", outDir, "-c", "2", srv.URL+"/book.txt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK")

	files, err := filepath.Glob(filepath.Join(outDir, "*.txt"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Equal(t, sample, string(data))
}

func TestFetchCommand_ReportsFailures(t *testing.T) {
	setupEnv(t)
	srv := newSource(t)

	stdout, stderr, err := execute(t, "fetch", srv.URL+"/book.txt", srv.URL+"/missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 downloads failed")
	assert.Contains(t, stdout, "/book.txt")
	assert.Contains(t, stderr, "/missing.txt")
}

func TestFetchCommand_RequiresURL(t *testing.T) {
	_, _, err := execute(t, "fetch")
	assert.Error(t, err)
}

func TestCheckCommand(t *testing.T) {
	setupEnv(t)
	srv := newSource(t)

	stdout, _, err := execute(t, "check", srv.URL+"/book.txt")
	require.NoError(t, err)
	assert.Contains(t, stdout, "OK")

	_, _, err = execute(t, "check", srv.URL+"/missing.txt")
	assert.Error(t, err)
}

func TestCleanCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("第一章\ufffd\ufffd开始"), 0o644))

	_, stderr, err := execute(t, "clean", "--force", "-o", out, in)
	require.NoError(t, err)
	assert.Contains(t, stderr, "charset=utf-8")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "\ufffd")
	assert.True(t, strings.HasPrefix(string(data), "第一章"))
}

func TestCleanCommand_Stdout(t *testing.T) {
	in := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(in, []byte(sample), 0o644))

	stdout, _, err := execute(t, "clean", in)
	require.NoError(t, err)
	assert.Equal(t, sample, stdout)
}

func TestCacheCommands(t *testing.T) {
	setupEnv(t)

	stdout, _, err := execute(t, "cache", "stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, "entries:  0")

	stdout, _, err = execute(t, "cache", "cleanup")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed 0 expired entries")

	stdout, _, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, stdout, "removed 0 entries")
}
