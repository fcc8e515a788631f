package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sammcj/hfscout/core"
	"github.com/sammcj/hfscout/recommender"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	up    = tea.KeyMsg{Type: tea.KeyUp}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// feed sends msgs in order and returns the resulting model
func feed(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestWizardCompletes(t *testing.T) {
	m := feed(t, New(24),
		down, enter, // second use case
		enter,       // first priority
		typed("16"), enter,
		down, down, enter, // 8k context
		down, enter, // commercial
	)

	req, ok := m.Result()
	require.True(t, ok)
	assert.Equal(t, recommender.UseCases()[1].Key, req.UseCase)
	assert.Equal(t, recommender.Priorities()[0].Key, req.Priority)
	assert.Equal(t, 16.0, req.MaxVRAM)
	assert.Equal(t, 8192, req.MinContext)
	assert.Equal(t, core.LicenseCommercial, req.License)
	assert.Empty(t, m.View())
}

func TestWizardBlankVRAMUsesDefault(t *testing.T) {
	m := feed(t, New(24), enter, enter, enter)
	assert.Equal(t, stepContext, m.step)
	assert.Equal(t, 24.0, m.req.MaxVRAM)

	m = feed(t, New(0), enter, enter, enter)
	assert.Equal(t, 0.0, m.req.MaxVRAM)
}

func TestWizardRejectsBadVRAM(t *testing.T) {
	m := feed(t, New(0), enter, enter, typed("lots"), enter)
	assert.Equal(t, stepVRAM, m.step)
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "enter a number")

	m = feed(t, New(0), enter, enter, typed("0.5"), enter)
	assert.Equal(t, stepVRAM, m.step)
	assert.ErrorIs(t, m.err, recommender.ErrLowVRAM)
}

func TestWizardAcceptsGBSuffix(t *testing.T) {
	m := feed(t, New(0), enter, enter, typed("12gb"), enter)
	assert.Equal(t, stepContext, m.step)
	assert.Equal(t, 12.0, m.req.MaxVRAM)
}

func TestWizardCursorBounds(t *testing.T) {
	m := feed(t, New(0), up)
	assert.Equal(t, 0, m.cursor)

	for range len(recommender.UseCases()) + 3 {
		m = feed(t, m, down)
	}
	assert.Equal(t, len(recommender.UseCases())-1, m.cursor)
}

func TestWizardBack(t *testing.T) {
	m := feed(t, New(0), enter, esc)
	assert.Equal(t, stepUseCase, m.step)

	m = feed(t, m, esc)
	assert.Equal(t, stepUseCase, m.step, "back on the first step stays put")
}

func TestWizardCancel(t *testing.T) {
	m := feed(t, New(0), enter, tea.KeyMsg{Type: tea.KeyCtrlC})
	_, ok := m.Result()
	assert.False(t, ok)
	assert.True(t, m.cancelled)
}

func TestWizardView(t *testing.T) {
	m := New(0)
	view := m.View()
	assert.Contains(t, view, "Step 1/5")
	assert.Contains(t, view, recommender.UseCases()[0].Name)
	assert.Contains(t, view, "enter select")

	m = feed(t, m, enter, enter)
	assert.Contains(t, m.View(), "VRAM (GB)")
}
