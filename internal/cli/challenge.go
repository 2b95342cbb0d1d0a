package cli

import (
	"github.com/julianstephens/studyline/internal/challenge"
)

type ChallengeTodayCmd struct {
	Feature string `help:"Challenge instance." default:"${default_feature}"`
}

func (c *ChallengeTodayCmd) Run(ctx *Context) error {
	today, err := ctx.TodayDate()
	if err != nil {
		return err
	}
	pool, err := ctx.Questions()
	if err != nil {
		return err
	}

	var view challenge.View
	err = ctx.Mutate(func() error {
		view, err = ctx.Challenges().Open(c.Feature, today, pool)
		return err
	})
	if err != nil {
		return err
	}

	ctx.println(titleStyle.Render("Daily challenge " + view.Date))
	ctx.printf("Streak: %d   Score: %d\n", view.State.Streak, view.State.TotalScore)
	ctx.println(TierLine(view.Projection))
	ctx.println()

	if !view.HasQuestion {
		ctx.println("No questions available. Point --content at a question pool.")
		return nil
	}
	q := view.Question
	ctx.printf("[%s / %s] %s\n", q.Subject, q.Topic, q.Prompt)
	for i, opt := range q.Options {
		ctx.printf("  %d) %s\n", i+1, opt)
	}
	if view.CompletedToday {
		result := warnStyle.Render("incorrect")
		if view.State.Correct {
			result = doneStyle.Render("correct")
		}
		ctx.printf("\nAlready answered today: %s\n", result)
	} else {
		ctx.println("\nAnswer with 'studyline challenge answer <option>'.")
	}
	return nil
}

type ChallengeAnswerCmd struct {
	Option  int    `arg:"" help:"Option number (1-based)."`
	Feature string `help:"Challenge instance." default:"${default_feature}"`
}

func (c *ChallengeAnswerCmd) Run(ctx *Context) error {
	today, err := ctx.TodayDate()
	if err != nil {
		return err
	}
	pool, err := ctx.Questions()
	if err != nil {
		return err
	}

	return ctx.Mutate(func() error {
		out, err := ctx.Challenges().Submit(c.Feature, today, pool, c.Option-1)
		if err != nil {
			return err
		}
		if out.AlreadyAnswered {
			ctx.println("You already answered today's challenge.")
		} else if out.Entry.Correct {
			ctx.printf("%s +%d points\n", doneStyle.Render("Correct!"), out.Entry.PointsEarned)
		} else {
			q, _ := challenge.Question(today, c.Feature, pool)
			ctx.printf("%s The answer was %d) %s\n", warnStyle.Render("Not quite."), q.Answer+1, q.Options[q.Answer])
			if q.Explanation != "" {
				ctx.println(openStyle.Render(q.Explanation))
			}
		}
		ctx.printf("Streak: %d   Score: %d\n", out.State.Streak, out.State.TotalScore)
		return nil
	})
}

type ChallengeCmd struct {
	Today  ChallengeTodayCmd  `cmd:"" help:"Show today's question." default:"1"`
	Answer ChallengeAnswerCmd `cmd:"" help:"Answer today's question."`
}
