package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/hpungsan/stringvault/internal/analysis"
	"github.com/hpungsan/stringvault/internal/ops"
)

// runCLI runs the app against dataDir and returns stdout.
func runCLI(t *testing.T, dataDir, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	app.Reader = strings.NewReader(stdin)

	full := append([]string{"stringvault", "--data-dir", dataDir}, args...)
	err := app.Run(full)
	return out.String(), err
}

func mustRun(t *testing.T, dataDir string, args ...string) string {
	t.Helper()
	out, err := runCLI(t, dataDir, "", args...)
	require.NoError(t, err)
	return out
}

func requireExit(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var exitErr cli.ExitCoder
	require.ErrorAs(t, err, &exitErr)
	require.Equal(t, 1, exitErr.ExitCode())
	require.Contains(t, err.Error(), "["+code+"]")
}

func TestCLICreateGetDelete(t *testing.T) {
	dir := t.TempDir()

	var created analysis.Record
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "create", "Kayak kayak")), &created))
	require.Equal(t, analysis.Hash("Kayak kayak"), created.ID)
	require.True(t, created.Properties.IsPalindrome)
	require.Equal(t, 2, created.Properties.WordCount)

	var got analysis.Record
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "get", "Kayak kayak")), &got))
	require.Equal(t, created.ID, got.ID)

	_, err := runCLI(t, dir, "", "create", "Kayak kayak")
	requireExit(t, err, "CONFLICT")

	var del ops.DeleteOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "delete", "Kayak kayak")), &del))
	require.True(t, del.Deleted)

	_, err = runCLI(t, dir, "", "get", "Kayak kayak")
	requireExit(t, err, "NOT_FOUND")
}

func TestCLICreate_Stdin(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "line one\nline two\n", "create", "-")
	require.NoError(t, err)

	var rec analysis.Record
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	require.Equal(t, "line one\nline two", rec.Value)
	require.Equal(t, 4, rec.Properties.WordCount)
}

func TestCLICreate_MissingValue(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "create")
	requireExit(t, err, "INVALID_REQUEST")
}

func TestCLIList(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"noon", "moon", "x y z"} {
		mustRun(t, dir, "create", v)
	}

	var out ops.ListOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "list")), &out))
	require.Equal(t, 3, out.Count)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "list", "--palindrome", "--min-length", "4")), &out))
	require.Equal(t, 1, out.Count)
	require.Equal(t, "noon", out.Data[0].Value)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "list", "--palindrome=false")), &out))
	require.Equal(t, 2, out.Count)
	require.Equal(t, "moon", out.Data[0].Value)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "list", "--word-count", "3", "--contains", "y")), &out))
	require.Equal(t, 1, out.Count)
	require.Equal(t, "x y z", out.Data[0].Value)
}

func TestCLIList_YAML(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "create", "kayak")

	raw := mustRun(t, dir, "--format", "yaml", "list", "--max-length", "5")

	var out map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(raw), &out))
	require.Equal(t, 1, out["count"])
	applied, ok := out["filters_applied"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, 5, applied["max_length"])
	require.Nil(t, applied["min_length"])
}

func TestCLISearch(t *testing.T) {
	dir := t.TempDir()
	for _, v := range []string{"stats", "statistics", "hi there"} {
		mustRun(t, dir, "create", v)
	}

	var out ops.SearchOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "search", "single", "word", "palindromes")), &out))
	require.Equal(t, 1, out.Count)
	require.Equal(t, "stats", out.Data[0].Value)

	_, err := runCLI(t, dir, "", "search", "show", "me", "everything")
	requireExit(t, err, "UNPARSEABLE_QUERY")
}

func TestCLIAnalyze(t *testing.T) {
	dir := t.TempDir()

	var props analysis.Properties
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dir, "analyze", "aab")), &props))
	require.Equal(t, analysis.Compute("aab"), props)

	// analyze never touches the data directory
	_, err := os.Stat(filepath.Join(dir, "stringvault.db"))
	require.True(t, os.IsNotExist(err))
}

func TestCLIParse(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "parse", "strings longer than 10 containing the letter q")
	require.JSONEq(t, `{
		"original": "strings longer than 10 containing the letter q",
		"parsed_filters": {"min_length": 11, "contains_character": "q"}
	}`, out)

	_, err := runCLI(t, dir, "", "parse", "nothing here")
	requireExit(t, err, "UNPARSEABLE_QUERY")
}

func TestCLIExportImport(t *testing.T) {
	src := t.TempDir()
	mustRun(t, src, "create", "one")
	mustRun(t, src, "create", "two")

	var exp ops.ExportOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, src, "export")), &exp))
	require.Equal(t, 2, exp.Count)
	require.Equal(t, filepath.Join(src, "exports"), filepath.Dir(exp.Path))

	dst := t.TempDir()
	_, err := runCLI(t, dst, "", "import", "--path", exp.Path)
	requireExit(t, err, "INVALID_REQUEST")

	allow, err := json.Marshal(map[string]any{"allowed_paths": []string{filepath.Dir(exp.Path)}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dst, "config.json"), allow, 0600))

	var imp ops.ImportOutput
	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dst, "import", "--path", exp.Path)), &imp))
	require.Equal(t, 2, imp.Imported)

	require.NoError(t, json.Unmarshal([]byte(mustRun(t, dst, "import", "--path", exp.Path, "--mode", "skip")), &imp))
	require.Equal(t, 0, imp.Imported)
	require.Equal(t, 2, imp.Skipped)
}

func TestCLIExport_PathOutsideExportsDir(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "create", "one")

	target := filepath.Join(t.TempDir(), ".bashrc")
	require.NoError(t, os.WriteFile(target, []byte("alias ll='ls -l'\n"), 0600))

	_, err := runCLI(t, dir, "", "export", "--path", target)
	requireExit(t, err, "INVALID_REQUEST")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "alias ll='ls -l'\n", string(data))
}

func TestCLIFormat_Unknown(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "--format", "xml", "analyze", "x")
	requireExit(t, err, "INVALID_REQUEST")
}

func TestCLIDataDir_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STRINGVAULT_HOME", dir)

	var out, errOut bytes.Buffer
	app := newCLIApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	require.NoError(t, app.Run([]string{"stringvault", "create", "env"}))

	_, err := os.Stat(filepath.Join(dir, "stringvault.db"))
	require.NoError(t, err)
}

func TestCLILogLevel_Invalid(t *testing.T) {
	_, err := runCLI(t, t.TempDir(), "", "--log-level", "loud", "list")
	requireExit(t, err, "INVALID_REQUEST")
}
