package cli

import (
	"fmt"
	"time"
)

type AchievementsCmd struct {
	Feature string `arg:"" optional:"" help:"Streak instance." default:"${default_feature}"`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	state, err := ctx.Streaks().Get(c.Feature)
	if err != nil {
		return err
	}

	unlocked := make(map[string]time.Time, len(state.Achievements))
	for _, a := range state.Achievements {
		unlocked[a.BadgeID] = a.UnlockedAt
	}

	ctx.println(titleStyle.Render("Achievements"))
	for _, tier := range ctx.Table {
		line := fmt.Sprintf("%-16s %3d day(s)  x%.2g", tier.Name, tier.MinStreak, tier.Multiplier)
		if at, ok := unlocked[tier.BadgeID]; ok {
			ctx.printf("%s %s  unlocked %s\n", checkbox(true), line, at.Local().Format("2006-01-02"))
		} else {
			ctx.printf("%s %s\n", checkbox(false), line)
		}
	}
	ctx.println(TierLine(ctx.Table.Project(state.CurrentStreak)))
	return nil
}
