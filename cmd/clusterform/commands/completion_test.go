package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompletion(t *testing.T) {
	cmd := Completion()

	require.NotNil(t, cmd)
	assert.Equal(t, "completion [bash|zsh|fish|powershell]", cmd.Use)
	assert.Equal(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)
	assert.True(t, cmd.DisableFlagsInUseLine)
}

func TestCompletion_Shells(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := Root()
			root.SetOut(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "clusterform")
		})
	}
}

func TestCompletion_InvalidArgs(t *testing.T) {
	tests := map[string][]string{
		"unknown shell": {"completion", "invalid"},
		"no shell":      {"completion"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			root := Root()
			root.SetArgs(args)
			assert.Error(t, root.Execute())
		})
	}
}
