package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/filingvec/internal/adapters/driving/tui/messages"
)

func TestTUICmd_Registered(t *testing.T) {
	found := false
	for _, c := range rootCmd.Commands() {
		if c.Name() == "tui" {
			found = true
		}
	}
	assert.True(t, found)
	assert.Equal(t, "Launch the interactive terminal UI", tuiCmd.Short)
	assert.Contains(t, tuiCmd.Long, "company filter")
}

func TestNewTUIApp_RequiresIndex(t *testing.T) {
	app = nil

	_, err := newTUIApp(tuiCmd)

	assert.EqualError(t, err, "index service not configured")
}

func TestNewTUIApp_UsesServices(t *testing.T) {
	setupTestServices(t)
	tuiCmd.SetContext(context.Background())

	a, err := newTUIApp(tuiCmd)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewMenu, a.CurrentView())
}
