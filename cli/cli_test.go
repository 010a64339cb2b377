package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootHelpListsSubcommands(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	for _, sub := range []string{"brfss", "dds", "synthetic", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cumdiff")
}

func TestDDSRejectsIncompatiblePair(t *testing.T) {
	_, err := execute(t, "dds", "Female", "Asian", "--data-dir", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gender")
}

func TestDDSRejectsUnknownSubpop(t *testing.T) {
	_, err := execute(t, "dds", "Martian", "--data-dir", t.TempDir())
	require.Error(t, err)
}

func TestDDSRejectsBadSeed(t *testing.T) {
	_, err := execute(t, "dds", "Female", "Male", "not-a-number")
	require.Error(t, err)
}

func TestBRFSSRejectsBadSeed(t *testing.T) {
	_, err := execute(t, "brfss", "not-a-number")
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("info", "text")
	require.NoError(t, err)
	_, err = newLogger("debug", "json")
	require.NoError(t, err)
	_, err = newLogger("info", "xml")
	require.Error(t, err)
	_, err = newLogger("loud", "text")
	require.Error(t, err)
}
