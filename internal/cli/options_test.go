package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand(t *testing.T) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().BoolP("verbose", "v", false, "")
	addCommonFlags(cmd)
	return cmd
}

func TestResolveOptionsRequiresURL(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := resolveOptions(newFlagCommand(t), nil)
	require.Error(t, err)
}

func TestResolveOptionsProjectFileProvidesDefaults(t *testing.T) {
	dir := t.TempDir()
	project := "url: postgres://ci@db.internal\ntemplate: ci%i\nmax_attempts: 7\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmpdb.yaml"), []byte(project), 0o600))
	t.Chdir(dir)

	opts, err := resolveOptions(newFlagCommand(t), nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://ci@db.internal", opts.rawURL)
	assert.Equal(t, "ci%i", opts.template)
	assert.Equal(t, 7, opts.maxAttempts)
}

func TestResolveOptionsFlagsBeatProjectFile(t *testing.T) {
	dir := t.TempDir()
	project := "url: postgres://ci@db.internal\ntemplate: ci%i\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmpdb.yaml"), []byte(project), 0o600))
	t.Chdir(dir)

	cmd := newFlagCommand(t)
	require.NoError(t, cmd.Flags().Set("template", "override%i"))

	opts, err := resolveOptions(cmd, []string{"mysql://root@localhost"})
	require.NoError(t, err)
	assert.Equal(t, "mysql://root@localhost", opts.rawURL)
	assert.Equal(t, "override%i", opts.template)
}

func TestGuardIdentifier(t *testing.T) {
	assert.Equal(t, "db1", guardIdentifier("postgres://localhost", "db1", ""))
	assert.Equal(t,
		filepath.Join("/var/tmp", "db1.sqlite"),
		guardIdentifier("sqlite:", "db1", "/var/tmp"))
}

func TestDatabaseNameFromURL(t *testing.T) {
	assert.Equal(t, "db1", databaseNameFromURL("postgres://u@h:5432/db1"))
	assert.Equal(t, "", databaseNameFromURL("postgres://u@h:5432"))
	assert.Equal(t, "/tmp/x.sqlite", databaseNameFromURL("sqlite:///tmp/x.sqlite"))
}

func TestSweepSubject(t *testing.T) {
	assert.Equal(t, "db.internal:5432", sweepSubject("postgres://ci@db.internal:5432"))
	assert.Equal(t, "sqlite:", sweepSubject("sqlite:"))
}
