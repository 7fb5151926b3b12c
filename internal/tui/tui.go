// Package tui is an interactive preview: type a noun and see every josa
// attached to it as you type.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jusunglee/josa"
	"github.com/jusunglee/josa/hangul"
)

const maxHistory = 10

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(10)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	fallbackStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type Model struct {
	selector  *josa.Selector
	textInput textinput.Model
	active    josa.Category
	history   []string
}

func New(selector *josa.Selector) Model {
	ti := textinput.New()
	ti.Placeholder = "고양이"
	ti.Focus()
	ti.CharLimit = 64
	ti.Width = 40

	return Model{
		selector:  selector,
		textInput: ti,
	}
}

// Run blocks until the user quits and returns the sentences they kept.
func Run(selector *josa.Selector) ([]string, error) {
	final, err := tea.NewProgram(New(selector)).Run()
	if err != nil {
		return nil, fmt.Errorf("running preview: %w", err)
	}
	return final.(Model).History(), nil
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		n := josa.Category(len(josa.Categories()))
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab, tea.KeyDown:
			m.active = (m.active + 1) % n
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.active = (m.active + n - 1) % n
			return m, nil
		case tea.KeyEnter:
			if noun := m.textInput.Value(); noun != "" {
				m.history = append([]string{m.selector.Concat(noun, m.active)}, m.history...)
				if len(m.history) > maxHistory {
					m.history = m.history[:maxHistory]
				}
				m.textInput.SetValue("")
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

func (m Model) History() []string {
	return append([]string(nil), m.history...)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("조사 미리보기"))
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	noun := m.textInput.Value()
	var rows []string
	for _, c := range josa.Categories() {
		label := labelStyle.Render(c.Label())
		line := m.selector.Concat(noun, c)
		if c == m.active {
			line = activeStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		rows = append(rows, label+line)
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	b.WriteString(m.status(noun))
	b.WriteString("\n")

	if len(m.history) > 0 {
		b.WriteString("\n")
		for _, h := range m.history {
			b.WriteString(subtleStyle.Render("  " + h))
			b.WriteString("\n")
		}
	}

	b.WriteString(subtleStyle.Render("\ntab/↓ next • shift+tab/↑ prev • enter keep • esc quit"))
	return b.String()
}

func (m Model) status(noun string) string {
	cls, err := m.selector.ClassOf(noun)
	switch {
	case noun == "":
		return subtleStyle.Render("type a noun")
	case josa.IsNotHangulSyllable(err):
		return fallbackStyle.Render(err.Error() + ", showing both forms")
	case err != nil:
		return fallbackStyle.Render(err.Error())
	}
	reading := ""
	if hangul.HasSyllable(noun) {
		reading = " • " + hangul.Romanize(noun)
	}
	return subtleStyle.Render("final syllable: " + cls.String() + reading)
}
