package cli

import (
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/streak"
	"github.com/julianstephens/studyline/internal/utils"
)

type StreakShowCmd struct {
	Feature string `arg:"" optional:"" help:"Streak instance." default:"${default_feature}"`
}

func (c *StreakShowCmd) Run(ctx *Context) error {
	today, err := ctx.TodayDate()
	if err != nil {
		return err
	}

	var state models.StreakState
	err = ctx.Mutate(func() error {
		state, err = ctx.Streaks().Open(c.Feature, today)
		return err
	})
	if err != nil {
		return err
	}
	printStreak(ctx, ctx.Streaks(), state, today)
	return nil
}

type StreakRecordCmd struct {
	Feature string `arg:"" optional:"" help:"Streak instance." default:"${default_feature}"`
}

func (c *StreakRecordCmd) Run(ctx *Context) error {
	today, err := ctx.TodayDate()
	if err != nil {
		return err
	}

	return ctx.Mutate(func() error {
		engine := ctx.Streaks()
		state, unlocks, err := engine.RecordActivity(c.Feature, today)
		if err != nil {
			return err
		}
		ctx.printf("Recorded activity for %s on %s\n", c.Feature, today)
		for _, u := range unlocks {
			ctx.printf("%s %s\n", accentStyle.Render("Achievement unlocked:"), u.Name)
		}
		printStreak(ctx, engine, state, today)
		return nil
	})
}

type StreakResetCmd struct {
	Feature     string `arg:"" optional:"" help:"Streak instance." default:"${default_feature}"`
	KeepHistory bool   `help:"Keep the longest streak, total active days and achievements."`
}

func (c *StreakResetCmd) Run(ctx *Context) error {
	return ctx.Mutate(func() error {
		ctx.PerformAutomaticBackup()
		if _, err := ctx.Streaks().Reset(c.Feature, streak.ResetPolicy{KeepHistory: c.KeepHistory}); err != nil {
			return err
		}
		if c.KeepHistory {
			ctx.printf("Reset current streak for %s (history kept)\n", c.Feature)
		} else {
			ctx.printf("Reset all streak data for %s\n", c.Feature)
		}
		return nil
	})
}

type StreakCmd struct {
	Show   StreakShowCmd   `cmd:"" help:"Show the current streak." default:"withargs"`
	Record StreakRecordCmd `cmd:"" help:"Record today's study activity."`
	Reset  StreakResetCmd  `cmd:"" help:"Reset a streak."`
}

func printStreak(ctx *Context, engine *streak.Engine, state models.StreakState, today string) {
	ctx.println(titleStyle.Render("Streak " + state.Feature))
	ctx.printf("Current: %d day(s)   Longest: %d   Active days: %d\n", state.CurrentStreak, state.LongestStreak, state.TotalActiveDays)
	if state.LastActiveDate != "" {
		ctx.printf("Last active: %s\n", lastActive(state.LastActiveDate, today))
	} else {
		ctx.println("Last active: never")
	}
	ctx.printf("This week: %s\n", WeekMarker(state.WeeklyActivity))
	ctx.println(TierLine(engine.Project(state)))
}

func lastActive(date, today string) string {
	days, err := utils.DaysBetween(date, today)
	if err != nil {
		return date
	}
	switch days {
	case 0:
		return date + " (today)"
	case 1:
		return date + " (yesterday)"
	}
	d, err := utils.ParseDate(date)
	if err != nil {
		return date
	}
	t, err := utils.ParseDate(today)
	if err != nil {
		return date
	}
	return date + " (" + humanize.RelTime(d, t, "ago", "from now") + ")"
}

