package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetImportCmd_Exists verifies getImportCmd returns
// a valid command.
func TestGetImportCmd_Exists(t *testing.T) {
	cmd := getImportCmd()
	require.NotNil(t, cmd, "Import command should exist")
	assert.Equal(t, "import", cmd.Name())
	assert.Contains(t, cmd.Short, "dataset")
	assert.Contains(t, cmd.Long, "transaction")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetImportCmd_Flags verifies flags and their shorthands.
func TestGetImportCmd_Flags(t *testing.T) {
	cmd := getImportCmd()

	tests := []struct {
		name      string
		shorthand string
		usage     string
	}{
		{"single", "s", "first new timeseries"},
		{"queries", "q", "SQL"},
		{"clean", "c", "delete"},
		{"no-progress", "", "progress"},
	}

	for _, v := range tests {
		flag := cmd.Flags().Lookup(v.name)
		require.NotNil(t, flag, v.name)
		assert.Equal(t, v.shorthand, flag.Shorthand, v.name)
		assert.Contains(t, flag.Usage, v.usage, v.name)
		assert.Equal(t, "false", flag.DefValue, v.name)
	}
}

// TestImport_Args verifies argument validation happens before
// any connection is made.
func TestImport_Args(t *testing.T) {
	withHome(t)

	_, err := execute(t, "import")
	assert.Error(t, err, "dataset id is required")

	_, err = execute(t, "import", "1", "2")
	assert.Error(t, err)

	_, err = execute(t, "import", "abc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid dataset id")
}

func TestParseDatasetID(t *testing.T) {
	id, err := parseDatasetID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseDatasetID("4.2")
	assert.Error(t, err)
}
