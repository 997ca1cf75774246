package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/team-sheet/internal/platform/logging"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps(nil)
	require.NoError(t, err)
	require.Equal(t, 1, steps)

	steps, err = parseSteps([]string{" 3 "})
	require.NoError(t, err)
	require.Equal(t, 3, steps)

	for _, raw := range []string{"0", "-1", "two"} {
		if _, err := parseSteps([]string{raw}); err == nil {
			t.Fatalf("expected error for %q", raw)
		}
	}
}

func TestParseVersionAndTarget(t *testing.T) {
	v, err := parseVersion("1792300000")
	require.NoError(t, err)
	require.Equal(t, 1792300000, v)

	if _, err := parseVersion("-4"); err == nil {
		t.Fatalf("expected negative version to fail")
	}

	target, err := parseTarget("7")
	require.NoError(t, err)
	require.Equal(t, uint(7), target)

	if _, err := parseTarget("x"); err == nil {
		t.Fatalf("expected invalid target to fail")
	}
}

func TestResolveMigrationsDir_PrefersFlag(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", filepath.Join(dir, "missing"))

	got, err := resolveMigrationsDir(dir)
	require.NoError(t, err)
	require.Equal(t, dir, got)
}

func TestResolveMigrationsDir_FallsBackToEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MIGRATIONS_DIR", dir)

	got, err := resolveMigrationsDir(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	require.Equal(t, dir, got)
}

func TestResolveMigrationsDir_IgnoresFiles(t *testing.T) {
	file := filepath.Join(t.TempDir(), "schema.sql")
	require.NoError(t, os.WriteFile(file, []byte("--"), 0o600))
	t.Setenv("MIGRATIONS_DIR", file)
	t.Chdir(t.TempDir())

	if _, err := resolveMigrationsDir(""); err == nil && !dirExists("/app/db/migrations") {
		t.Fatalf("expected error when no directory candidate exists")
	}
}

func TestNormalizeDBURL_AppendsFlag(t *testing.T) {
	got := normalizeDBURL("postgres://u:p@localhost:5432/team_sheet?sslmode=disable", true)
	require.Contains(t, got, "disable_prepared_binary_result=yes")
	require.Equal(t, "postgres://x", normalizeDBURL("postgres://x", false))
}

func TestNewRootCmd_RegistersSubcommands(t *testing.T) {
	root := newRootCmd(logging.NewNop())

	for _, name := range []string{"up", "down", "version", "force", "goto", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		require.NotSame(t, root, cmd, name)
	}
}

func TestNewRootCmd_ValidatesArgs(t *testing.T) {
	root := newRootCmd(logging.NewNop())
	root.SetArgs([]string{"force"})

	if err := root.Execute(); err == nil {
		t.Fatalf("expected missing version argument to fail")
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
