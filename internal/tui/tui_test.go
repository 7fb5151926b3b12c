package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jusunglee/josa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyType) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestPreviewShowsEveryCategory(t *testing.T) {
	m := typeText(t, New(josa.NewSelector()), "물")
	require.Equal(t, "물", m.textInput.Value())

	view := m.View()
	for _, want := range []string{"물은", "물이", "물을", "물과", "rieul", "mul"} {
		assert.Contains(t, view, want)
	}
}

func TestPreviewFallback(t *testing.T) {
	m := typeText(t, New(josa.NewSelector()), "curry")

	view := m.View()
	assert.Contains(t, view, "curry이(가)")
	assert.Contains(t, view, "showing both forms")
}

func TestCategoryNavigationWraps(t *testing.T) {
	m := New(josa.NewSelector())
	assert.Equal(t, josa.EunNeun, m.active)

	m, _ = press(t, m, tea.KeyShiftTab)
	assert.Equal(t, josa.Eu, m.active)

	m, _ = press(t, m, tea.KeyTab)
	m, _ = press(t, m, tea.KeyTab)
	assert.Equal(t, josa.IGa, m.active)
}

func TestEnterKeepsSentence(t *testing.T) {
	m := New(josa.NewSelector())
	m, _ = press(t, m, tea.KeyTab) // IGa
	m = typeText(t, m, "고양이")
	m, _ = press(t, m, tea.KeyEnter)

	assert.Equal(t, []string{"고양이가"}, m.History())
	assert.Empty(t, m.textInput.Value())

	m, _ = press(t, m, tea.KeyEnter)
	assert.Len(t, m.History(), 1, "enter on empty input keeps nothing")
}

func TestQuit(t *testing.T) {
	_, cmd := press(t, New(josa.NewSelector()), tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
