package plan

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyline/internal/models"
)

var (
	dayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	noteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)
)

// Row is one selectable line: a day header (Topic empty) or a topic.
type Row struct {
	Day   int
	Topic string
}

func (r Row) IsDay() bool {
	return r.Topic == ""
}

type Model struct {
	viewport viewport.Model
	Plan     *models.StudyPlan
	rows     []Row
	cursor   int
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
	if m.Plan == nil {
		return "No study plan yet. Create one with 'studyline plan init'."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetPlan replaces the plan, keeping the cursor on the same row when it
// still exists.
func (m *Model) SetPlan(plan models.StudyPlan) {
	var prev Row
	if m.cursor < len(m.rows) {
		prev = m.rows[m.cursor]
	}

	m.Plan = &plan
	m.rows = m.rows[:0]
	for _, d := range plan.Days {
		m.rows = append(m.rows, Row{Day: d.Number})
		for _, t := range d.Topics {
			m.rows = append(m.rows, Row{Day: d.Number, Topic: t.ID})
		}
	}

	m.cursor = 0
	for i, r := range m.rows {
		if r == prev {
			m.cursor = i
			break
		}
	}
	m.Render()
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return Row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) MoveUp() {
	if m.cursor > 0 {
		m.cursor--
		m.Render()
	}
}

func (m *Model) MoveDown() {
	if m.cursor < len(m.rows)-1 {
		m.cursor++
		m.Render()
	}
}

func (m *Model) Render() {
	if m.Plan == nil {
		m.viewport.SetContent("No plan loaded.")
		return
	}

	var b strings.Builder
	i := 0
	for _, day := range m.Plan.Days {
		b.WriteString(m.line(i, fmt.Sprintf("%s %s %s",
			mark(day.AllTopicsCompleted()),
			dayStyle.Render(fmt.Sprintf("Day %d", day.Number)),
			dateStyle.Render(day.Date),
		)))
		i++
		for _, t := range day.Topics {
			text := fmt.Sprintf("    %s %s", mark(t.Completed), t.ID)
			if t.Note != "" {
				text += "  " + noteStyle.Render(t.Note)
			}
			b.WriteString(m.line(i, text))
			i++
		}
	}
	m.viewport.SetContent(b.String())

	if m.cursor < m.viewport.YOffset {
		m.viewport.SetYOffset(m.cursor)
	} else if h := m.viewport.Height; h > 0 && m.cursor >= m.viewport.YOffset+h {
		m.viewport.SetYOffset(m.cursor - h + 1)
	}
}

func (m Model) line(i int, text string) string {
	if i == m.cursor {
		return cursorStyle.Render("> ") + text + "\n"
	}
	return "  " + text + "\n"
}

func mark(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return "[ ]"
}
