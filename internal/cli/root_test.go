package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, dbPath string, args ...string) cliResult {
	t.Helper()

	var out, errOut bytes.Buffer
	code := Run(context.Background(), append([]string{"--db", dbPath}, args...), &out, &errOut)
	return cliResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func setupCLI(t *testing.T) string {
	t.Setenv("TASKS_CONFIG", "")
	t.Setenv("TASKS_DB_PATH", "")
	t.Setenv("TASKS_SEARCH_MODE", "")
	return filepath.Join(t.TempDir(), "cli.db")
}

func TestCLI_Workflow(t *testing.T) {
	db := setupCLI(t)

	res := runCLI(t, db, "add", "Write", "TDD", "example")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Added task 1: Write TDD example\n", res.stdout)

	res = runCLI(t, db, "add", "Learn TDD")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Added task 2")

	res = runCLI(t, db, "done", "2")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "Task 2 is DONE\n", res.stdout)

	res = runCLI(t, db, "ls")
	require.Equal(t, 0, res.code, res.stderr)
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Learn TDD")
	assert.Contains(t, lines[2], "Write TDD example")

	res = runCLI(t, db, "ls", "--status", "done")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Learn TDD")
	assert.NotContains(t, res.stdout, "Write TDD example")

	res = runCLI(t, db, "search", "example")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Write TDD example")
	assert.NotContains(t, res.stdout, "Learn TDD")

	res = runCLI(t, db, "stats")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "OPEN:  1\nDONE:  1\nTOTAL: 2\n", res.stdout)
}

func TestCLI_Errors(t *testing.T) {
	db := setupCLI(t)

	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{name: "blank title", args: []string{"add", "   "}, wantCode: 2, wantErr: "title is required"},
		{name: "no title", args: []string{"add"}, wantCode: 1},
		{name: "done unknown id", args: []string{"done", "42"}, wantCode: 1, wantErr: "task not found: 42"},
		{name: "done not a number", args: []string{"done", "abc"}, wantCode: 2, wantErr: "not a number"},
		{name: "unknown status", args: []string{"ls", "--status", "pending"}, wantCode: 2},
		{name: "bad search mode", args: []string{"--search-mode", "fuzzy", "ls"}, wantCode: 1, wantErr: "search_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, db, tt.args...)
			assert.Equal(t, tt.wantCode, res.code)
			assert.Contains(t, res.stderr, tt.wantErr)
		})
	}

	res := runCLI(t, db, "ls")
	require.Equal(t, 0, res.code)
	assert.Equal(t, "No tasks.\n", res.stdout, "failed commands must not store anything")
}

func TestCLI_SearchModeFromConfigFile(t *testing.T) {
	db := setupCLI(t)

	cfgPath := filepath.Join(t.TempDir(), "tasks.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`search_mode = "sensitive"`), 0o644))

	require.Equal(t, 0, runCLI(t, db, "add", "Implement CRUD").code)

	res := runCLI(t, db, "--config", cfgPath, "search", "crud")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Equal(t, "No tasks.\n", res.stdout)

	res = runCLI(t, db, "search", "crud")
	require.Equal(t, 0, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Implement CRUD")
}

func TestCLI_UnavailableStorage(t *testing.T) {
	setupCLI(t)
	missing := filepath.Join(t.TempDir(), "no-such-dir", "cli.db")

	res := runCLI(t, missing, "ls")
	assert.Equal(t, 1, res.code)
	assert.Contains(t, res.stderr, "storage unavailable")
}
