package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/studyline/internal/mock"
	"github.com/julianstephens/studyline/internal/models"
)

// FacetFlags are the facet filters shared by the mock subcommands.
type FacetFlags struct {
	Year       string `help:"Year filter." default:"all"`
	Subject    string `help:"Subject filter." default:"all"`
	Topic      string `help:"Topic filter." default:"all"`
	Subtopic   string `help:"Subtopic filter." default:"all"`
	Difficulty string `help:"Difficulty filter." default:"all"`
}

// Facets applies the flags coarsest first so a parent choice resets its
// dependents before they are set.
func (f FacetFlags) Facets() (mock.Facets, error) {
	facets := mock.AllFacets()
	values := map[mock.Dimension]string{
		mock.DimYear:       f.Year,
		mock.DimSubject:    f.Subject,
		mock.DimTopic:      f.Topic,
		mock.DimSubtopic:   f.Subtopic,
		mock.DimDifficulty: f.Difficulty,
	}
	for _, dim := range mock.Dimensions {
		v := strings.TrimSpace(values[dim])
		if v == "" || strings.EqualFold(v, mock.All) {
			continue
		}
		next, err := facets.With(dim, v)
		if err != nil {
			return facets, err
		}
		facets = next
	}
	return facets, nil
}

type MockOptionsCmd struct {
	FacetFlags
	Dimension string `arg:"" optional:"" help:"Facet to list (year, subject, topic, subtopic, difficulty). Lists all when omitted."`
}

func (c *MockOptionsCmd) Run(ctx *Context) error {
	pool, err := ctx.Questions()
	if err != nil {
		return err
	}
	facets, err := c.Facets()
	if err != nil {
		return err
	}

	dims := mock.Dimensions
	if c.Dimension != "" {
		dim, err := mock.ParseDimension(c.Dimension)
		if err != nil {
			return err
		}
		dims = []mock.Dimension{dim}
	}

	for _, dim := range dims {
		opts := mock.Options(pool, facets, dim)
		if len(opts) == 0 {
			ctx.printf("%-11s (none)\n", dim)
			continue
		}
		ctx.printf("%-11s %s\n", dim, strings.Join(opts, ", "))
	}
	ctx.printf("\n%d question(s) match %s\n", len(mock.SelectablePool(pool, facets)), facets)
	return nil
}

type MockStartCmd struct {
	FacetFlags
	Count       int     `help:"Number of questions." default:"20"`
	Shuffle     bool    `help:"Shuffle the selected questions." negatable:"" default:"true"`
	Multiplier  float64 `help:"Time multiplier, clamped to [0.5, 2]." default:"1"`
	Interactive bool    `short:"i" help:"Pick facets and answer questions in an interactive form."`
}

func (c *MockStartCmd) Run(ctx *Context) error {
	pool, err := ctx.Questions()
	if err != nil {
		return err
	}
	facets, err := c.Facets()
	if err != nil {
		return err
	}

	if c.Interactive {
		facets, err = pickFacets(pool, facets)
		if err != nil {
			return err
		}
	}

	run, err := ctx.Mocks().Start(pool, mock.Config{
		Facets:         facets,
		Count:          c.Count,
		Shuffle:        c.Shuffle,
		TimeMultiplier: c.Multiplier,
	})
	if err != nil {
		return err
	}

	ctx.println(titleStyle.Render(fmt.Sprintf("Mock test %s", run.ID[:8])))
	ctx.printf("%d question(s), %s, time limit %s (x%.2g)\n\n", len(run.Questions), run.Facets, run.Duration, run.Multiplier)

	if !c.Interactive {
		for i, q := range run.Questions {
			ctx.printf("%d. %s\n", i+1, q.Prompt)
			for j, opt := range q.Options {
				ctx.printf("   %c) %s\n", 'a'+j, opt)
			}
		}
		return nil
	}

	answers, err := askQuestions(run)
	if err != nil {
		return err
	}
	result := mock.Score(run, answers)
	if time.Now().After(run.Deadline()) {
		ctx.println(warnStyle.Render("Time is up: answers after the deadline still counted."))
	}
	ctx.printf("Score: %s  correct %d, incorrect %d, unanswered %d\n",
		ProgressBar(result.Percent, barWidth), result.Correct, result.Incorrect, result.Unanswered)
	return nil
}

type MockCmd struct {
	Options MockOptionsCmd `cmd:"" help:"List facet values available for the current selection."`
	Start   MockStartCmd   `cmd:"" help:"Start a mock test."`
}

// pickFacets walks the dimensions coarsest first, offering only values that
// still match at least one question.
func pickFacets(pool []models.Question, facets mock.Facets) (mock.Facets, error) {
	for _, dim := range mock.Dimensions {
		values := mock.Options(pool, facets, dim)
		if len(values) == 0 {
			continue
		}
		choice := facets.Get(dim)
		opts := []huh.Option[string]{huh.NewOption("All", mock.All)}
		for _, v := range values {
			opts = append(opts, huh.NewOption(v, v))
		}
		err := huh.NewForm(huh.NewGroup(
			huh.NewSelect[string]().
				Title(strings.ToUpper(string(dim[:1])) + string(dim[1:])).
				Options(opts...).
				Value(&choice),
		)).Run()
		if err != nil {
			return facets, err
		}
		if facets, err = facets.With(dim, choice); err != nil {
			return facets, err
		}
	}
	return facets, nil
}

func askQuestions(run mock.Run) (map[string]int, error) {
	picked := make([]string, len(run.Questions))
	groups := make([]*huh.Group, 0, len(run.Questions))
	for i, q := range run.Questions {
		opts := []huh.Option[string]{huh.NewOption("Skip", "")}
		for j, o := range q.Options {
			opts = append(opts, huh.NewOption(o, strconv.Itoa(j)))
		}
		groups = append(groups, huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("%d/%d  %s", i+1, len(run.Questions), q.Prompt)).
				Options(opts...).
				Value(&picked[i]),
		))
	}
	if err := huh.NewForm(groups...).Run(); err != nil {
		return nil, err
	}

	answers := make(map[string]int, len(picked))
	for i, p := range picked {
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		answers[run.Questions[i].ID] = n
	}
	return answers, nil
}
