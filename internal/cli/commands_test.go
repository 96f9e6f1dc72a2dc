package cli

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/tmpdb/pkg/tmpdb"
)

func execRoot(t *testing.T, out io.Writer, args ...string) error {
	t.Helper()
	if out == nil {
		out = io.Discard
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, execRoot(t, &buf, "version"))
	assert.Contains(t, buf.String(), "tmpdb ")
}

func TestGuardCommandRequiresMode(t *testing.T) {
	err := execRoot(t, nil, "guard")
	assert.ErrorIs(t, err, tmpdb.ErrInvalidConfig)
}

func TestGuardCommandRequiresURLAndName(t *testing.T) {
	err := execRoot(t, nil, "guard", "--mode", "pipe")
	assert.ErrorIs(t, err, tmpdb.ErrInvalidConfig)
}

func TestDropRequiresExactlyOneTarget(t *testing.T) {
	t.Chdir(t.TempDir())

	err := execRoot(t, nil, "drop", "postgres://localhost")
	assert.ErrorIs(t, err, tmpdb.ErrInvalidConfig)

	err = execRoot(t, nil, "drop", "postgres://localhost", "--name", "x", "--all")
	assert.ErrorIs(t, err, tmpdb.ErrInvalidConfig)
}

func TestCreateRejectsUnknownGuardMode(t *testing.T) {
	t.Chdir(t.TempDir())

	err := execRoot(t, nil, "create", "postgres://localhost", "--guard", "fork")
	assert.ErrorIs(t, err, tmpdb.ErrInvalidConfig)
}
