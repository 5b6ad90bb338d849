package habitlist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitlit/internal/models"
	"github.com/julianstephens/habitlit/internal/tracker"
)

type AddHabitMsg struct{}

// SubmitStatusMsg asks the root model to record a status for today
type SubmitStatusMsg struct {
	ID     string
	Status models.CompletionStatus
}

type ShowHistoryMsg struct {
	Habit models.Habit
}

type Item struct {
	Row tracker.Row
}

func (i Item) Title() string {
	switch i.Row.Status {
	case models.StatusCompleted:
		return "✓ " + i.Row.Habit.Name
	case models.StatusSkipped:
		return "– " + i.Row.Habit.Name
	default:
		return "○ " + i.Row.Habit.Name
	}
}

func (i Item) Description() string {
	desc := string(i.Row.Habit.Frequency)
	if i.Row.Category != nil {
		desc = i.Row.Category.Name + " | " + desc
	}
	desc += " | " + string(i.Row.Status)
	if i.Row.Streak > 0 {
		desc += fmt.Sprintf(" | streak %d", i.Row.Streak)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Row.Habit.Name }

type KeyMap struct {
	Add      key.Binding
	Complete key.Binding
	Skip     key.Binding
	History  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Complete: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "complete"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		History: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "history"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(rows []tracker.Row, width, height int) Model {
	l := list.New(toItems(rows), list.NewDefaultDelegate(), width, height)
	l.Title = "Today"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Skip}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Complete, keys.Skip, keys.History}
	}

	return Model{list: l, keys: keys}
}

func toItems(rows []tracker.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = Item{Row: r}
	}
	return items
}

func (m *Model) SetRows(rows []tracker.Row) {
	m.list.SetItems(toItems(rows))
}

// Rows returns the rows currently shown
func (m Model) Rows() []tracker.Row {
	items := m.list.Items()
	rows := make([]tracker.Row, 0, len(items))
	for _, it := range items {
		if i, ok := it.(Item); ok {
			rows = append(rows, i.Row)
		}
	}
	return rows
}

func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Complete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return SubmitStatusMsg{ID: i.Row.Habit.ID, Status: models.StatusCompleted} }
			}
		case key.Matches(msg, m.keys.Skip):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return SubmitStatusMsg{ID: i.Row.Habit.ID, Status: models.StatusSkipped} }
			}
		case key.Matches(msg, m.keys.History):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ShowHistoryMsg{Habit: i.Row.Habit} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits for today.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
