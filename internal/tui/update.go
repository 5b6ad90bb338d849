package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/logger"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tracker"
	"github.com/julianstephens/habitlit/internal/tui/components/habitlist"
)

// reserved for the header, summary, status line and help
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		m.habits.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		m.history.SetSize(msg.Width-h, msg.Height-v-chromeHeight)
		return m, nil

	case sessionLoadedMsg:
		if msg.err != nil {
			logger.Error("Failed to load session", "error", msg.err)
			m.status = errorStatus(msg.err)
		}
		if msg.user == nil {
			return m.enterAuth()
		}
		m.user = msg.user
		m.state = constants.StateDashboard
		return m, m.loadRows

	case authDoneMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m.enterAuth()
		}
		m.user = &msg.user
		m.status = fmt.Sprintf("Signed in as %s", msg.user.DisplayName())
		m.state = constants.StateDashboard
		return m, m.loadRows

	case rowsLoadedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m.habits.SetRows(msg.rows)
		m.summary = tracker.Summarize(m.tracker.Today(), msg.rows)
		return m, nil

	case statusSubmittedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Marked %s for %s", msg.log.Status, msg.log.Date)
		return m, m.loadRows

	case habitCreatedMsg:
		if msg.err != nil {
			// keep the form open so the input can be corrected
			m.status = errorStatus(msg.err)
			if m.form != nil && m.state == constants.StateAddHabit {
				m.form.State = huh.StateNormal
			}
			return m, nil
		}
		m.warnings = msg.warnings
		m.status = fmt.Sprintf("Created %s", msg.habit.Name)
		m.state = constants.StateDashboard
		return m, m.loadRows

	case historyLoadedMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m.history.SetHistory(msg.habit, msg.days)
		m.state = constants.StateHistory
		return m, nil

	case signedOutMsg:
		if msg.err != nil {
			m.status = errorStatus(msg.err)
			return m, nil
		}
		m.user = nil
		m.habits.SetRows(nil)
		m.status = "Signed out"
		return m.enterAuth()
	}

	switch m.state {
	case constants.StateAuth:
		return m.updateAuth(msg)
	case constants.StateAddHabit:
		return m.updateAddHabit(msg)
	case constants.StateHistory:
		return m.updateHistory(msg)
	case constants.StateDashboard:
		return m.updateDashboard(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) enterAuth() (tea.Model, tea.Cmd) {
	m.authForm = &AuthFormModel{}
	m.form = NewAuthForm(m.authForm)
	m.state = constants.StateAuth
	return m, m.form.Init()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}
	return m, cmd
}

func (m Model) updateAuth(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	m, cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		return m, m.authenticate(*m.authForm)
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}

func (m Model) updateAddHabit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateDashboard
		return m, nil
	}

	m, cmd := m.updateForm(msg)
	switch m.form.State {
	case huh.StateCompleted:
		return m, m.createHabit(*m.habitForm)
	case huh.StateAborted:
		m.state = constants.StateDashboard
		return m, nil
	}
	return m, cmd
}

func (m Model) updateHistory(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.state = constants.StateDashboard
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.history, cmd = m.history.Update(msg)
	return m, cmd
}

func (m Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{
			Frequency: models.FrequencyDaily,
			StartDate: m.tracker.Today(),
		}
		m.form = NewHabitForm(m.habitForm, m.tracker.Gateway().Categories())
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.SubmitStatusMsg:
		return m, m.submitStatus(msg.ID, msg.Status)

	case habitlist.ShowHistoryMsg:
		return m, m.loadHistory(msg.Habit)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.status = ""
			return m, m.loadRows
		case key.Matches(msg, m.keys.SignOut):
			return m, m.signOut
		}
	}

	var cmd tea.Cmd
	m.habits, cmd = m.habits.Update(msg)
	return m, cmd
}
