package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tracker"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Glyph is the one-character mark of a day in the log view
func Glyph(d tracker.HistoryDay) string {
	if !d.Active {
		return " "
	}
	switch d.Status {
	case models.StatusCompleted:
		return "█"
	case models.StatusSkipped:
		return "·"
	default:
		return "░"
	}
}

type Model struct {
	viewport viewport.Model
	Habit    *models.Habit
	Days     []tracker.HistoryDay
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Habit == nil {
		return "No habit selected."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

func (m *Model) SetHistory(habit models.Habit, days []tracker.HistoryDay) {
	m.Habit = &habit
	m.Days = days
	m.Render()
}

func (m *Model) Render() {
	if m.Habit == nil {
		m.viewport.SetContent("No history loaded.")
		return
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.Habit.Name) + "\n\n")
	for i := len(m.Days) - 1; i >= 0; i-- {
		d := m.Days[i]
		status := string(d.Status)
		if !d.Active {
			status = inactiveStyle.Render("not active")
		}
		fmt.Fprintf(&b, "%s %s %s\n", dateStyle.Render(d.Date), Glyph(d), status)
	}
	m.viewport.SetContent(b.String())
}
