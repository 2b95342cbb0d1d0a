package cli

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/studyline/internal/content"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/progress"
)

type PlanInitCmd struct {
	Scope string   `arg:"" optional:"" help:"Plan scope, e.g. 'biology-30'. Taken from --file when omitted."`
	File  string   `help:"YAML or JSON plan file." type:"existingfile"`
	Start string   `help:"Start date (YYYY-MM-DD). Defaults to today."`
	Day   []string `help:"Comma-separated topic IDs for the next day. Repeat once per day." sep:"none"`
}

func (c *PlanInitCmd) Run(ctx *Context) error {
	scope, start := c.Scope, c.Start
	var specs []models.DaySpec

	if c.File != "" {
		pf, err := content.LoadPlanFile(c.File)
		if err != nil {
			return err
		}
		if scope == "" {
			scope = pf.Scope
		}
		if start == "" {
			start = pf.StartDate
		}
		specs = pf.Days
	}
	for _, day := range c.Day {
		var topics []string
		for _, t := range strings.Split(day, ",") {
			if t = strings.TrimSpace(t); t != "" {
				topics = append(topics, t)
			}
		}
		specs = append(specs, models.DaySpec{Number: len(specs) + 1, Topics: topics})
	}

	if start == "" {
		today, err := ctx.TodayDate()
		if err != nil {
			return err
		}
		start = today
	}

	return ctx.Mutate(func() error {
		plan, err := ctx.Tracker().Initialize(scope, start, specs)
		if err != nil {
			return err
		}
		ctx.printf("Initialized plan %q: %d days, %d topics, starting %s\n", plan.Scope, plan.TotalDays, plan.TotalTopics, start)
		return nil
	})
}

type PlanShowCmd struct {
	Scope string `arg:"" help:"Plan scope."`
	Notes bool   `help:"Show topic notes."`
}

func (c *PlanShowCmd) Run(ctx *Context) error {
	plan, err := ctx.Tracker().Get(c.Scope)
	if err != nil {
		return err
	}
	summary := progress.Summarize(plan)

	ctx.println(titleStyle.Render(fmt.Sprintf("Plan %s", plan.Scope)))
	ctx.printf("%s\n", ProgressBar(summary.Percent, barWidth))
	ctx.printf("Days %d/%d, topics %d/%d, streak of completed days: %d\n",
		summary.CompletedDays, summary.TotalDays, summary.CompletedTopics, summary.TotalTopics, summary.PrefixStreak)
	if !summary.LastUpdated.IsZero() {
		ctx.printf("Last updated %s\n", humanize.Time(summary.LastUpdated))
	}
	ctx.println()

	for _, day := range plan.Days {
		marker := "  "
		if day.Number == summary.NextDay {
			marker = accentStyle.Render("> ")
		}
		ctx.printf("%s%s Day %d  %s\n", marker, checkbox(day.AllTopicsCompleted()), day.Number, day.Date)
		for _, topic := range day.Topics {
			ctx.printf("      %s %s\n", checkbox(topic.Completed), topic.ID)
			if c.Notes && topic.Note != "" {
				ctx.printf("          %s\n", openStyle.Render(topic.Note))
			}
		}
	}
	return nil
}

type PlanListCmd struct{}

func (c *PlanListCmd) Run(ctx *Context) error {
	plans, err := ctx.Tracker().List()
	if err != nil {
		return err
	}
	if len(plans) == 0 {
		ctx.println("No plans yet. Create one with 'studyline plan init'.")
		return nil
	}
	for _, plan := range plans {
		s := progress.Summarize(plan)
		ctx.printf("%-20s %s  %d/%d days\n", plan.Scope, ProgressBar(s.Percent, barWidth/2), s.CompletedDays, s.TotalDays)
	}
	return nil
}

type PlanToggleCmd struct {
	Scope string `arg:"" help:"Plan scope."`
	Day   int    `arg:"" help:"Day number."`
	Topic string `arg:"" help:"Topic ID."`
}

func (c *PlanToggleCmd) Run(ctx *Context) error {
	return ctx.Mutate(func() error {
		tracker := ctx.Tracker()
		plan, err := tracker.ToggleTopic(c.Scope, c.Day, c.Topic)
		if err != nil {
			return withTopicHint(tracker, err, c.Scope, c.Day, c.Topic)
		}
		topic := findTopic(plan, c.Day, c.Topic)
		state := "open"
		if topic != nil && topic.Completed {
			state = "done"
		}
		ctx.printf("Day %d %s: %s (%s)\n", c.Day, c.Topic, state, ProgressBar(progress.Percent(plan), barWidth))
		return nil
	})
}

type PlanToggleDayCmd struct {
	Scope string `arg:"" help:"Plan scope."`
	Day   int    `arg:"" help:"Day number."`
}

func (c *PlanToggleDayCmd) Run(ctx *Context) error {
	return ctx.Mutate(func() error {
		plan, err := ctx.Tracker().ToggleDay(c.Scope, c.Day)
		if err != nil {
			return err
		}
		state := "open"
		for _, d := range plan.Days {
			if d.Number == c.Day && d.AllTopicsCompleted() {
				state = "done"
			}
		}
		ctx.printf("Day %d: %s (%s)\n", c.Day, state, ProgressBar(progress.Percent(plan), barWidth))
		return nil
	})
}

type PlanNoteCmd struct {
	Scope string `arg:"" help:"Plan scope."`
	Day   int    `arg:"" help:"Day number."`
	Topic string `arg:"" help:"Topic ID."`
	Note  string `arg:"" help:"Note text. An empty string clears the note."`
}

func (c *PlanNoteCmd) Run(ctx *Context) error {
	return ctx.Mutate(func() error {
		tracker := ctx.Tracker()
		if _, err := tracker.AnnotateTopic(c.Scope, c.Day, c.Topic, c.Note); err != nil {
			return withTopicHint(tracker, err, c.Scope, c.Day, c.Topic)
		}
		ctx.printf("Saved note on day %d %s\n", c.Day, c.Topic)
		return nil
	})
}

type PlanDeleteCmd struct {
	Scope string `arg:"" help:"Plan scope."`
}

func (c *PlanDeleteCmd) Run(ctx *Context) error {
	return ctx.Mutate(func() error {
		ctx.PerformAutomaticBackup()
		if err := ctx.Tracker().Delete(c.Scope); err != nil {
			return err
		}
		ctx.printf("Deleted plan %q\n", c.Scope)
		return nil
	})
}

type PlanCmd struct {
	Init      PlanInitCmd      `cmd:"" help:"Create or replace a study plan."`
	Show      PlanShowCmd      `cmd:"" help:"Show a plan with its progress."`
	List      PlanListCmd      `cmd:"" help:"List all plans."`
	Toggle    PlanToggleCmd    `cmd:"" help:"Toggle one topic."`
	ToggleDay PlanToggleDayCmd `cmd:"" name:"toggle-day" help:"Toggle every topic of a day."`
	Note      PlanNoteCmd      `cmd:"" help:"Attach a note to a topic."`
	Delete    PlanDeleteCmd    `cmd:"" help:"Delete a plan."`
}

func withTopicHint(tracker *progress.Tracker, err error, scope string, day int, topic string) error {
	if !stderrors.Is(err, progress.ErrTopicNotFound) {
		return err
	}
	plan, gerr := tracker.Get(scope)
	if gerr != nil {
		return err
	}
	if s := suggest(topic, progress.TopicIDs(plan, day)); s != "" {
		return fmt.Errorf("%w (did you mean %q?)", err, s)
	}
	return err
}

func findTopic(plan models.StudyPlan, day int, id string) *models.Topic {
	for i := range plan.Days {
		if plan.Days[i].Number != day {
			continue
		}
		for j := range plan.Days[i].Topics {
			if plan.Days[i].Topics[j].ID == id {
				return &plan.Days[i].Topics[j]
			}
		}
	}
	return nil
}
