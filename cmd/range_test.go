package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetRangeCmd_Exists verifies getRangeCmd returns
// a valid command.
func TestGetRangeCmd_Exists(t *testing.T) {
	cmd := getRangeCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "range", cmd.Name())
	assert.Contains(t, cmd.Long, "--all")
	assert.NotNil(t, cmd.RunE)

	flag := cmd.Flags().Lookup("all")
	require.NotNil(t, flag)
	assert.Equal(t, "a", flag.Shorthand)

	assert.NotNil(t, cmd.Flags().Lookup("analyze"))
	assert.Nil(t, cmd.Flags().Lookup("clean"),
		"range does not delete datasets")
	assert.NotNil(t, cmd.Flags().Lookup("single"))
}

// TestRange_Args verifies argument validation.
func TestRange_Args(t *testing.T) {
	withHome(t)

	tests := []struct {
		msg  string
		args []string
		err  string
	}{
		{"one bound", []string{"range", "1"}, "accepts 2 arg(s)"},
		{"all with bounds", []string{"range", "--all", "1", "2"}, "unknown command"},
		{"not a number", []string{"range", "1", "x"}, "invalid dataset id"},
		{"reversed", []string{"range", "5", "1"}, "invalid range 5..1"},
	}

	for _, v := range tests {
		_, err := execute(t, v.args...)
		require.Error(t, err, v.msg)
		assert.Contains(t, err.Error(), v.err, v.msg)
	}
}
