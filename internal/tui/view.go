package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitlit/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateLoading:
		content = "Loading..."
	case constants.StateAuth, constants.StateAddHabit:
		content = m.form.View()
	case constants.StateHistory:
		content = m.history.View()
	default:
		content = m.habits.View()
	}

	ui := lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
	return ui
}

func (m Model) viewHeader() string {
	title := headerStyle.Render(constants.AppName)
	if m.user == nil {
		return title
	}
	s := m.summary
	counts := summaryStyle.Render(fmt.Sprintf("%s | %s | %d/%d done, %d skipped",
		m.user.DisplayName(), m.tracker.Today(), s.Completed, s.Total(), s.Skipped))
	return lipgloss.JoinHorizontal(lipgloss.Top, title, counts)
}

func (m Model) viewStatus() string {
	var lines []string
	if m.status != "" {
		if strings.HasPrefix(m.status, "Error:") {
			lines = append(lines, dangerStyle.Render(m.status))
		} else {
			lines = append(lines, m.status)
		}
	}
	for _, w := range m.warnings {
		lines = append(lines, warningStyle.Render("⚠ "+w.Description))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
