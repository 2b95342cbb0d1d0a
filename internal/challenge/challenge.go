// Package challenge runs the once-a-day question: every observer on the same
// date gets the same question, and answering it feeds a daily streak and a
// running score.
package challenge

import (
	"fmt"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/selector"
	"github.com/julianstephens/studyline/internal/storage"
	"github.com/julianstephens/studyline/internal/utils"
)

var (
	ErrNoQuestion    = fmt.Errorf("no question available: %w", errors.ErrInvalidConfiguration)
	ErrInvalidAnswer = fmt.Errorf("invalid answer: %w", errors.ErrInvalidConfiguration)
	ErrDateBehind    = fmt.Errorf("date precedes the last completed challenge: %w", errors.ErrInvalidConfiguration)
)

// View is what a caller shows when the challenge screen opens.
type View struct {
	Date           string
	Question       models.Question
	HasQuestion    bool
	State          models.DailyChallengeState
	CompletedToday bool
	Projection     achievement.Projection
}

// Outcome is the result of answering today's question.
type Outcome struct {
	Entry           models.ChallengeEntry
	State           models.DailyChallengeState
	AlreadyAnswered bool
}

type Option func(*Engine)

func WithBasePoints(n int) Option {
	return func(e *Engine) {
		e.basePoints = n
	}
}

func WithHistoryCap(n int) Option {
	return func(e *Engine) {
		e.historyCap = n
	}
}

type Engine struct {
	kv         storage.KV
	table      achievement.Table
	basePoints int
	historyCap int
}

func New(kv storage.KV, table achievement.Table, opts ...Option) *Engine {
	e := &Engine{
		kv:         kv,
		table:      table,
		basePoints: constants.DefaultChallengeBasePoints,
		historyCap: constants.DefaultChallengeHistoryCap,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func key(feature string) string {
	return storage.Key(constants.NamespaceChallenge, feature)
}

func (e *Engine) load(feature string) (models.DailyChallengeState, error) {
	state := models.DailyChallengeState{
		Schema:  constants.SnapshotSchema,
		Feature: feature,
	}
	if _, err := storage.LoadSnapshot(e.kv, key(feature), &state); err != nil {
		return models.DailyChallengeState{}, err
	}
	return state, nil
}

// Question returns the question every caller sees for feature on date.
func Question(date, feature string, pool []models.Question) (models.Question, bool) {
	if len(pool) == 0 {
		return models.Question{}, false
	}
	q := selector.PickSalted(date, feature, pool, models.Question{})
	return q, q.ID != ""
}

// Open re-derives the streak for a new calendar date, persisting any change,
// and returns today's question.
func (e *Engine) Open(feature, today string, pool []models.Question) (View, error) {
	current, err := e.load(feature)
	if err != nil {
		return View{}, err
	}

	state, changed, err := reconcile(current, today)
	if err != nil {
		return View{}, err
	}
	if changed {
		if err := storage.SaveSnapshot(e.kv, key(feature), state); err != nil {
			return View{}, err
		}
		logger.Transition(constants.NamespaceChallenge, key(feature), "Daily challenge rolled over", "today", today, "streak", state.Streak)
	}

	q, ok := Question(today, feature, pool)
	return View{
		Date:           today,
		Question:       q,
		HasQuestion:    ok,
		State:          state,
		CompletedToday: state.LastCompletedDate == today,
		Projection:     e.table.Project(state.Streak),
	}, nil
}

// Submit answers today's question. Any answer counts towards the streak;
// only a correct one earns points. A second submission on the same date
// returns the stored outcome without changing anything. A date earlier than
// the last completion fails with ErrDateBehind.
func (e *Engine) Submit(feature, today string, pool []models.Question, answer int) (Outcome, error) {
	current, err := e.load(feature)
	if err != nil {
		return Outcome{}, err
	}

	if current.LastCompletedDate == today {
		out := Outcome{State: current, AlreadyAnswered: true}
		if len(current.History) > 0 && current.History[0].Date == today {
			out.Entry = current.History[0]
		}
		return out, nil
	}

	gap := 0
	if current.LastCompletedDate != "" {
		gap, err = utils.DaysBetween(current.LastCompletedDate, today)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: %w", errors.ErrInvalidConfiguration, err)
		}
		if gap < 0 {
			return Outcome{State: current}, fmt.Errorf("%w: %s is before %s", ErrDateBehind, today, current.LastCompletedDate)
		}
	} else if !utils.ValidateDate(today) {
		return Outcome{}, fmt.Errorf("%w: invalid date %q", errors.ErrInvalidConfiguration, today)
	}

	q, ok := Question(today, feature, pool)
	if !ok {
		return Outcome{}, ErrNoQuestion
	}
	if answer < 0 || answer >= len(q.Options) {
		return Outcome{}, fmt.Errorf("%w: option %d (question has %d options)", ErrInvalidAnswer, answer+1, len(q.Options))
	}

	next := current.Clone()
	if gap == 1 {
		next.Streak++
	} else {
		next.Streak = 1
	}

	correct := q.IsCorrect(answer)
	points := 0
	if correct {
		points = e.table.Award(e.basePoints, next.Streak)
	}

	entry := models.ChallengeEntry{
		Date:         today,
		QuestionID:   q.ID,
		Correct:      correct,
		PointsEarned: points,
	}
	next.LastCompletedDate = today
	next.Completed = true
	next.Correct = correct
	next.TotalScore += points
	next.History = append([]models.ChallengeEntry{entry}, next.History...)
	if e.historyCap > 0 && len(next.History) > e.historyCap {
		next.History = next.History[:e.historyCap]
	}

	if err := storage.SaveSnapshot(e.kv, key(feature), next); err != nil {
		return Outcome{State: current}, err
	}
	logger.Transition(constants.NamespaceChallenge, key(feature), "Daily challenge answered", "correct", correct, "points", points, "streak", next.Streak)
	return Outcome{Entry: entry, State: next}, nil
}

// reconcile clears yesterday's completion flags on a new date and zeroes a
// streak whose last completion is older than yesterday.
func reconcile(state models.DailyChallengeState, today string) (models.DailyChallengeState, bool, error) {
	if !utils.ValidateDate(today) {
		return state, false, fmt.Errorf("%w: invalid date %q", errors.ErrInvalidConfiguration, today)
	}
	if state.LastCompletedDate == "" || state.LastCompletedDate == today {
		return state, false, nil
	}

	gap, err := utils.DaysBetween(state.LastCompletedDate, today)
	if err != nil {
		return state, false, fmt.Errorf("%w: stored completion date: %w", errors.ErrInvalidConfiguration, err)
	}
	if gap < 0 {
		return state, false, nil
	}

	next := state.Clone()
	changed := false
	if next.Completed || next.Correct {
		next.Completed = false
		next.Correct = false
		changed = true
	}
	if gap > 1 && next.Streak > 0 {
		next.Streak = 0
		changed = true
	}
	return next, changed, nil
}
