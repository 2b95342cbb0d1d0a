// Package mock builds timed mock tests from a static question pool.
package mock

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/validation"
)

// ErrPoolTooSmall is returned when the filtered pool is below the minimum
// viable size. No run is started.
var ErrPoolTooSmall = fmt.Errorf("question pool too small: %w", errors.ErrInvalidConfiguration)

// Config is an ephemeral mock test request.
type Config struct {
	Facets         Facets
	Count          int `validate:"min=1"`
	Shuffle        bool
	TimeMultiplier float64 // 0 means 1x; anything else is clamped to [0.5, 2]
}

// Limits are the engine's fixed bounds.
type Limits struct {
	HardCap   int           `validate:"min=1"`
	MinViable int           `validate:"min=1"`
	PerItem   time.Duration `validate:"gt=0"`
}

func DefaultLimits() Limits {
	return Limits{
		HardCap:   constants.DefaultMockHardCap,
		MinViable: constants.DefaultMockMinViable,
		PerItem:   constants.DefaultMockSecondsPerItem * time.Second,
	}
}

// Run is a started mock test.
type Run struct {
	ID         string
	Facets     Facets
	Questions  []models.Question
	Duration   time.Duration
	Multiplier float64
	StartedAt  time.Time
}

// Deadline is when the run's time budget ends.
func (r Run) Deadline() time.Time {
	return r.StartedAt.Add(r.Duration)
}

// Result grades a finished run.
type Result struct {
	Correct    int
	Incorrect  int
	Unanswered int
	Percent    int
}

type Option func(*Engine)

func WithLimits(l Limits) Option {
	return func(e *Engine) {
		e.limits = l
	}
}

// WithRand sets the shuffle source. Tests pass a seeded generator.
func WithRand(r *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

type Engine struct {
	limits    Limits
	rng       *rand.Rand
	now       func() time.Time
	validator *validation.Validator
}

func New(opts ...Option) *Engine {
	e := &Engine{
		limits:    DefaultLimits(),
		now:       time.Now,
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := uint64(e.now().UnixNano())
		e.rng = rand.New(rand.NewPCG(seed, seed>>32|1))
	}
	return e
}

func (e *Engine) Limits() Limits {
	return e.limits
}

// Start filters pool by cfg.Facets and builds a run. It fails with
// ErrPoolTooSmall when fewer than MinViable questions match.
func (e *Engine) Start(pool []models.Question, cfg Config) (Run, error) {
	if err := e.validator.Struct(e.limits); err != nil {
		return Run{}, err
	}
	if err := e.validator.Struct(cfg); err != nil {
		return Run{}, err
	}

	selectable := SelectablePool(pool, cfg.Facets)
	if len(selectable) < e.limits.MinViable {
		return Run{}, fmt.Errorf("%w: %d questions match %s, at least %d required",
			ErrPoolTooSmall, len(selectable), cfg.Facets, e.limits.MinViable)
	}

	count := ClampedCount(cfg.Count, len(selectable), e.limits.HardCap)
	multiplier := ClampMultiplier(cfg.TimeMultiplier)
	run := Run{
		ID:         uuid.NewString(),
		Facets:     cfg.Facets,
		Questions:  BuildRun(selectable, count, cfg.Shuffle, e.rng),
		Duration:   ComputeDuration(count, multiplier, e.limits.PerItem),
		Multiplier: multiplier,
		StartedAt:  e.now().UTC(),
	}
	logger.Transition("mock", run.ID, "Mock run started", "facets", cfg.Facets.String(), "questions", len(run.Questions), "duration", run.Duration)
	return run, nil
}

// ClampedCount is min(requested, poolSize, hardCap), never negative.
func ClampedCount(requested, poolSize, hardCap int) int {
	n := min(requested, poolSize, hardCap)
	if n < 0 {
		return 0
	}
	return n
}

// ClampMultiplier bounds m to [MinTimeMultiplier, MaxTimeMultiplier]. Zero
// and NaN mean "unset" and yield 1.
func ClampMultiplier(m float64) float64 {
	if m == 0 || math.IsNaN(m) {
		return 1
	}
	return math.Max(constants.MinTimeMultiplier, math.Min(constants.MaxTimeMultiplier, m))
}

// ComputeDuration is itemCount * perItem scaled by the clamped multiplier,
// rounded up to whole minutes.
func ComputeDuration(itemCount int, multiplier float64, perItem time.Duration) time.Duration {
	if itemCount <= 0 {
		return 0
	}
	seconds := float64(itemCount) * perItem.Seconds() * ClampMultiplier(multiplier)
	minutes := math.Ceil(seconds/60 - 1e-9)
	return time.Duration(minutes) * time.Minute
}

// BuildRun returns count questions from pool. With shuffle the whole pool is
// permuted before truncation; otherwise pool order is kept. The input slice
// is never modified.
func BuildRun(pool []models.Question, count int, shuffle bool, rng *rand.Rand) []models.Question {
	count = ClampedCount(count, len(pool), len(pool))
	out := append([]models.Question(nil), pool...)
	if shuffle && len(out) > 1 {
		if rng == nil {
			rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		}
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out[:count]
}

// Score grades answers keyed by question ID. Missing entries count as
// unanswered.
func Score(run Run, answers map[string]int) Result {
	var r Result
	for _, q := range run.Questions {
		a, ok := answers[q.ID]
		switch {
		case !ok:
			r.Unanswered++
		case q.IsCorrect(a):
			r.Correct++
		default:
			r.Incorrect++
		}
	}
	if n := len(run.Questions); n > 0 {
		r.Percent = int(math.Round(float64(r.Correct) * 100 / float64(n)))
	}
	return r
}
