package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/tui/components/plan"
)

// Plans is the slice of the progress tracker the dashboard drives.
type Plans interface {
	List() ([]models.StudyPlan, error)
	ToggleTopic(scope string, dayNumber int, topicID string) (models.StudyPlan, error)
	ToggleDay(scope string, dayNumber int) (models.StudyPlan, error)
}

// Streaks is the slice of the streak engine the dashboard drives.
type Streaks interface {
	Open(feature, today string) (models.StreakState, error)
	RecordActivity(feature, today string) (models.StreakState, []achievement.Unlock, error)
	Project(state models.StreakState) achievement.Projection
}

type Deps struct {
	Tracker Plans
	Streaks Streaks
	Feature string
	Scope   string // plan to open first, empty for the first one
	Today   string
}

type Model struct {
	deps      Deps
	keys      KeyMap
	help      help.Model
	plans     []models.StudyPlan
	current   int
	planView  plan.Model
	streak    models.StreakState
	projected achievement.Projection
	status    string
	err       error
	quitting  bool
	width     int
	height    int
}

// NewModel loads every plan and reconciles the streak for today.
func NewModel(deps Deps) (Model, error) {
	plans, err := deps.Tracker.List()
	if err != nil {
		return Model{}, err
	}
	state, err := deps.Streaks.Open(deps.Feature, deps.Today)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		deps:      deps,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		plans:     plans,
		planView:  plan.New(0, 0),
		streak:    state,
		projected: deps.Streaks.Project(state),
	}
	for i, p := range plans {
		if p.Scope == deps.Scope {
			m.current = i
		}
	}
	if deps.Scope != "" && (len(plans) == 0 || plans[m.current].Scope != deps.Scope) {
		m.status = fmt.Sprintf("No plan named %q", deps.Scope)
	}
	m.showCurrent()
	return m, nil
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) showCurrent() {
	if len(m.plans) == 0 {
		return
	}
	m.planView.SetPlan(m.plans[m.current])
}

// Plan returns the plan on screen.
func (m Model) Plan() (models.StudyPlan, bool) {
	if len(m.plans) == 0 {
		return models.StudyPlan{}, false
	}
	return m.plans[m.current], true
}

func (m Model) Streak() models.StreakState {
	return m.streak
}

func (m Model) Status() string {
	return m.status
}
