package cli

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/studyline/internal/tui"
)

type TuiCmd struct {
	Scope   string `arg:"" optional:"" help:"Plan to open. Defaults to the first plan."`
	Feature string `help:"Streak instance." default:"${default_feature}"`
}

func (c *TuiCmd) Run(ctx *Context) error {
	today, err := ctx.TodayDate()
	if err != nil {
		return err
	}
	return ctx.Mutate(func() error {
		m, err := tui.NewModel(tui.Deps{
			Tracker: ctx.Tracker(),
			Streaks: ctx.Streaks(),
			Feature: c.Feature,
			Scope:   c.Scope,
			Today:   today,
		})
		if err != nil {
			return err
		}
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	})
}
