package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// useSQLite points the commands at a throwaway sqlite file.
func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "ctl.db"))
	t.Setenv("LOG_LEVEL", "error")
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "taskflowctl dev")
	assert.Contains(t, out, "commit: none")
}

func TestVersionCmdWithCustomValues(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, Date
	Version, Commit, Date = "1.0.0", "abc123", "2026-01-01"
	defer func() { Version, Commit, Date = origVersion, origCommit, origDate }()

	out, err := run(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "taskflowctl 1.0.0")
	assert.Contains(t, out, "built: 2026-01-01")
}

func TestRootCmdHelp(t *testing.T) {
	out, err := run(t, "--help")

	require.NoError(t, err)
	for _, sub := range []string{"migrate", "user", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestUserCreateAndPromote(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "user", "create",
		"--username", "boss", "--email", "boss@example.com", "--password", "secret123",
		"--first-name", "Big", "--last-name", "Boss")
	require.NoError(t, err)
	assert.Contains(t, out, "Created boss")
	assert.Contains(t, out, "as DEVELOPER")

	out, err = run(t, "user", "promote", "--username", "boss")
	require.NoError(t, err)
	assert.Contains(t, out, "boss is now System Administrator")

	out, err = run(t, "user", "deactivate", "--username", "boss")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "boss deactivated"))
}

func TestUserPromote_UnknownRole(t *testing.T) {
	useSQLite(t)
	_, err := run(t, "user", "create",
		"--username", "dev", "--email", "dev@example.com", "--password", "secret123",
		"--first-name", "D", "--last-name", "Ev")
	require.NoError(t, err)

	_, err = run(t, "user", "promote", "--username", "dev", "--role", "overlord")

	assert.ErrorContains(t, err, "validation failed")
}

func TestMigrateDown_RequiresPostgres(t *testing.T) {
	useSQLite(t)

	_, err := run(t, "migrate", "down")

	assert.ErrorContains(t, err, "DB_DRIVER=postgres")
}

func TestMigrateUp_SQLite(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "migrate", "up")

	require.NoError(t, err)
	assert.Contains(t, out, "Schema ready")
}
