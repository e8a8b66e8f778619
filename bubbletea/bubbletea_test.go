package bubbletea_test

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fwojciec/trickle"
	bt "github.com/fwojciec/trickle/bubbletea"
	"github.com/stretchr/testify/require"
)

// initModel creates a model and sends a WindowSizeMsg to initialize the viewport.
func initModel(t *testing.T, buf *trickle.Buffer) bt.Model {
	t.Helper()
	return initModelWithSize(t, buf, 80, 24)
}

// initModelWithSize creates a model with a custom terminal size.
func initModelWithSize(t *testing.T, buf *trickle.Buffer, width, height int) bt.Model {
	t.Helper()
	m := bt.New(nopFetch, buf, trickle.DefaultTheme())
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// updateModel sends a message and returns the updated Model.
func updateModel(t *testing.T, m bt.Model, msg tea.Msg) bt.Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(bt.Model)
	require.True(t, ok)
	return model
}

// nopFetch is a fetch function that does nothing.
func nopFetch(_ context.Context, _ func(trickle.Event)) error {
	return nil
}
