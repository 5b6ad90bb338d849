package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitlit/internal/constants"
	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/session"
	"github.com/julianstephens/habitlit/internal/tracker"
	"github.com/julianstephens/habitlit/internal/tui/components/habitlist"
	"github.com/julianstephens/habitlit/internal/tui/components/history"
	"github.com/julianstephens/habitlit/internal/validation"
)

type Model struct {
	tracker  *tracker.Tracker
	sessions *session.Gateway

	state     constants.SessionState
	keys      KeyMap
	help      help.Model
	habits    habitlist.Model
	history   history.Model
	form      *huh.Form
	authForm  *AuthFormModel
	habitForm *HabitFormModel

	user     *models.Profile
	summary  tracker.Summary
	status   string
	warnings []validation.Conflict
	quitting bool
	width    int
	height   int
}

// NewModel returns the root view. It starts in the loading state and
// resolves the session in Init.
func NewModel(tr *tracker.Tracker, sessions *session.Gateway) Model {
	return Model{
		tracker:  tr,
		sessions: sessions,
		state:    constants.StateLoading,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		habits:   habitlist.New(nil, 0, 0),
		history:  history.New(0, 0),
	}
}

// State returns the current screen
func (m Model) State() constants.SessionState {
	return m.state
}

// Status returns the one-line message shown under the dashboard
func (m Model) Status() string {
	return m.status
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDashboard:
		keys = append(keys, m.keys.Add, m.keys.Complete, m.keys.Skip, m.keys.Refresh)
	case constants.StateHistory:
		keys = append(keys, m.keys.Back)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.SignOut}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter, m.keys.Back}
	actions := []key.Binding{m.keys.Add, m.keys.Complete, m.keys.Skip, m.keys.Refresh}
	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.loadSession
}

type sessionLoadedMsg struct {
	user *models.Profile
	err  error
}

type authDoneMsg struct {
	user models.Profile
	err  error
}

type rowsLoadedMsg struct {
	rows []tracker.Row
	err  error
}

type statusSubmittedMsg struct {
	log models.HabitLog
	err error
}

type habitCreatedMsg struct {
	habit    models.Habit
	warnings []validation.Conflict
	err      error
}

type historyLoadedMsg struct {
	habit models.Habit
	days  []tracker.HistoryDay
	err   error
}

type signedOutMsg struct {
	err error
}

func (m Model) loadSession() tea.Msg {
	sess, err := m.sessions.GetSession(context.Background())
	if err != nil || sess == nil {
		return sessionLoadedMsg{err: err}
	}
	return sessionLoadedMsg{user: &sess.User}
}

func (m Model) loadRows() tea.Msg {
	rows, err := m.tracker.Rows(context.Background(), m.tracker.Today(), false)
	return rowsLoadedMsg{rows: rows, err: err}
}

func (m Model) authenticate(fm AuthFormModel) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		var (
			user models.Profile
			err  error
		)
		if fm.SignUp {
			user, err = m.sessions.SignUp(ctx, fm.Email, fm.Password)
		} else {
			user, err = m.sessions.SignIn(ctx, fm.Email, fm.Password)
		}
		return authDoneMsg{user: user, err: err}
	}
}

func (m Model) submitStatus(habitID string, status models.CompletionStatus) tea.Cmd {
	return func() tea.Msg {
		log, err := m.tracker.Transition(context.Background(), habitID, m.tracker.Today(), status, false)
		return statusSubmittedMsg{log: log, err: err}
	}
}

func (m Model) createHabit(fm HabitFormModel) tea.Cmd {
	return func() tea.Msg {
		habit, warnings, err := m.tracker.CreateHabit(context.Background(), fm.NewHabit())
		return habitCreatedMsg{habit: habit, warnings: warnings, err: err}
	}
}

func (m Model) loadHistory(habit models.Habit) tea.Cmd {
	return func() tea.Msg {
		end := m.tracker.Today()
		start, err := shiftDate(end, -(constants.DefaultHistoryDays - 1))
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		days, err := m.tracker.History(context.Background(), habit.ID, start, end)
		return historyLoadedMsg{habit: habit, days: days, err: err}
	}
}

func (m Model) signOut() tea.Msg {
	return signedOutMsg{err: m.sessions.SignOut(context.Background())}
}

func errorStatus(err error) string {
	return fmt.Sprintf("Error: %v", err)
}
