package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyline/internal/models"
)

const headerHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.planView.SetSize(msg.Width-4, max(1, msg.Height-headerHeight-4))

	case tea.KeyMsg:
		m.status, m.err = "", nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.planView.MoveUp()
		case key.Matches(msg, m.keys.Down):
			m.planView.MoveDown()
		case key.Matches(msg, m.keys.NextPlan):
			if len(m.plans) > 0 {
				m.current = (m.current + 1) % len(m.plans)
				m.showCurrent()
			}
		case key.Matches(msg, m.keys.PrevPlan):
			if len(m.plans) > 0 {
				m.current = (m.current - 1 + len(m.plans)) % len(m.plans)
				m.showCurrent()
			}
		case key.Matches(msg, m.keys.Toggle):
			m.toggle(false)
		case key.Matches(msg, m.keys.ToggleDay):
			m.toggle(true)
		case key.Matches(msg, m.keys.Record):
			m.record()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.planView, cmd = m.planView.Update(msg)
	return m, cmd
}

// toggle flips the topic under the cursor, or its whole day when wholeDay is
// set or the cursor sits on a day header.
func (m *Model) toggle(wholeDay bool) {
	current, ok := m.Plan()
	if !ok {
		return
	}
	row, ok := m.planView.Selected()
	if !ok {
		return
	}

	var (
		next models.StudyPlan
		err  error
	)
	if wholeDay || row.IsDay() {
		next, err = m.deps.Tracker.ToggleDay(current.Scope, row.Day)
	} else {
		next, err = m.deps.Tracker.ToggleTopic(current.Scope, row.Day, row.Topic)
	}
	if err != nil {
		m.err = err
		return
	}
	m.plans[m.current] = next
	m.showCurrent()
}

func (m *Model) record() {
	state, unlocks, err := m.deps.Streaks.RecordActivity(m.deps.Feature, m.deps.Today)
	if err != nil {
		m.err = err
		return
	}
	m.streak = state
	m.projected = m.deps.Streaks.Project(state)

	if len(unlocks) == 0 {
		m.status = fmt.Sprintf("Activity recorded for %s", m.deps.Today)
		return
	}
	names := make([]string, len(unlocks))
	for i, u := range unlocks {
		names[i] = u.Name
	}
	m.status = "Unlocked: " + strings.Join(names, ", ")
}
