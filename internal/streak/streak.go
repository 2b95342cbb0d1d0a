// Package streak maintains one calendar-day streak per feature instance.
//
// "today" is always passed in by the caller as a YYYY-MM-DD string; the engine
// never reads the wall clock to decide a day boundary. The injected clock is
// only used to timestamp achievement unlocks.
package streak

import (
	"fmt"
	"time"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/storage"
	"github.com/julianstephens/studyline/internal/utils"
)

// ResetPolicy controls what survives an explicit reset.
type ResetPolicy struct {
	// KeepHistory retains LongestStreak, TotalActiveDays and unlocked
	// achievements. Without it every field is zeroed.
	KeepHistory bool
}

type Option func(*Engine)

// WithClock sets the source of achievement unlock timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

type Engine struct {
	kv    storage.KV
	table achievement.Table
	now   func() time.Time
}

func New(kv storage.KV, table achievement.Table, opts ...Option) *Engine {
	e := &Engine{
		kv:    kv,
		table: table,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func key(feature string) string {
	return storage.Key(constants.NamespaceStreak, feature)
}

func (e *Engine) load(feature string) (models.StreakState, error) {
	state := models.StreakState{
		Schema:  constants.SnapshotSchema,
		Feature: feature,
	}
	if _, err := storage.LoadSnapshot(e.kv, key(feature), &state); err != nil {
		return models.StreakState{}, err
	}
	return state, nil
}

// Get returns the stored state without reconciling it. A feature that was
// never recorded reads as all-zero.
func (e *Engine) Get(feature string) (models.StreakState, error) {
	return e.load(feature)
}

// Open reconciles the stored state against today and persists the result if
// anything changed. Call it before presenting a streak so a multi-day absence
// reads as a broken streak.
func (e *Engine) Open(feature, today string) (models.StreakState, error) {
	current, err := e.load(feature)
	if err != nil {
		return models.StreakState{}, err
	}

	next, changed, err := Reconcile(current, today)
	if err != nil {
		return models.StreakState{}, err
	}
	if !changed {
		return current, nil
	}

	if err := storage.SaveSnapshot(e.kv, key(feature), next); err != nil {
		return current, err
	}
	logger.Transition(constants.NamespaceStreak, key(feature), "Streak reconciled", "today", today, "streak", next.CurrentStreak)
	return next, nil
}

// RecordActivity marks today as active. Recording the same date twice is a
// no-op. Newly unlocked achievements are returned for the caller to surface.
func (e *Engine) RecordActivity(feature, today string) (models.StreakState, []achievement.Unlock, error) {
	current, err := e.load(feature)
	if err != nil {
		return models.StreakState{}, nil, err
	}

	next, _, err := Reconcile(current, today)
	if err != nil {
		return models.StreakState{}, nil, err
	}

	gap := 0
	if next.LastActiveDate != "" {
		if gap, err = utils.DaysBetween(next.LastActiveDate, today); err != nil {
			return models.StreakState{}, nil, fmt.Errorf("%w: %w", errors.ErrInvalidConfiguration, err)
		}
		if gap <= 0 {
			// Same day, or the clock moved backwards
			return current, nil, nil
		}
	}

	if gap == 1 {
		next.CurrentStreak++
		logger.Transition(constants.NamespaceStreak, key(feature), "Streak continued", "streak", next.CurrentStreak)
	} else {
		if next.CurrentStreak > 0 || next.LastActiveDate != "" {
			logger.Transition(constants.NamespaceStreak, key(feature), "Streak restarted", "gap_days", gap)
		}
		next.CurrentStreak = 1
	}
	next.LastActiveDate = today
	if next.CurrentStreak > next.LongestStreak {
		next.LongestStreak = next.CurrentStreak
	}
	next.TotalActiveDays++
	if err := markWeek(&next, today); err != nil {
		return models.StreakState{}, nil, err
	}

	unlocks := e.unlock(&next)

	if err := storage.SaveSnapshot(e.kv, key(feature), next); err != nil {
		return current, nil, err
	}
	for _, u := range unlocks {
		logger.Transition(constants.NamespaceStreak, key(feature), "Achievement unlocked", "badge", u.BadgeID)
	}
	return next, unlocks, nil
}

// Reset zeroes the streak according to policy.
func (e *Engine) Reset(feature string, policy ResetPolicy) (models.StreakState, error) {
	current, err := e.load(feature)
	if err != nil {
		return models.StreakState{}, err
	}

	next := models.StreakState{
		Schema:  constants.SnapshotSchema,
		Feature: feature,
	}
	if policy.KeepHistory {
		next.LongestStreak = current.LongestStreak
		next.TotalActiveDays = current.TotalActiveDays
		if current.Achievements != nil {
			next.Achievements = append([]models.UnlockedAchievement(nil), current.Achievements...)
		}
	}

	if err := storage.SaveSnapshot(e.kv, key(feature), next); err != nil {
		return current, err
	}
	logger.Transition(constants.NamespaceStreak, key(feature), "Streak reset", "keep_history", policy.KeepHistory)
	return next, nil
}

// Project returns where the state's current streak sits in the engine's table.
func (e *Engine) Project(state models.StreakState) achievement.Projection {
	return e.table.Project(state.CurrentStreak)
}

func (e *Engine) unlock(state *models.StreakState) []achievement.Unlock {
	var unlocks []achievement.Unlock
	now := e.now().UTC()
	for _, tier := range e.table.Qualifying(state.CurrentStreak) {
		if state.HasAchievement(tier.BadgeID) {
			continue
		}
		state.Achievements = append(state.Achievements, models.UnlockedAchievement{
			BadgeID:    tier.BadgeID,
			UnlockedAt: now,
		})
		unlocks = append(unlocks, achievement.Unlock{
			BadgeID:    tier.BadgeID,
			Name:       tier.Name,
			UnlockedAt: now,
		})
	}
	return unlocks
}

// Reconcile applies the passive checks for today: a streak whose last active
// day is before yesterday is zeroed, and a weekly marker from an earlier week
// is cleared. It reports whether anything changed.
func Reconcile(state models.StreakState, today string) (models.StreakState, bool, error) {
	if _, err := utils.ParseDate(today); err != nil {
		return state, false, fmt.Errorf("%w: %w", errors.ErrInvalidConfiguration, err)
	}

	next := state.Clone()
	changed := false

	if next.LastActiveDate != "" && next.CurrentStreak > 0 {
		gap, err := utils.DaysBetween(next.LastActiveDate, today)
		if err != nil {
			return state, false, fmt.Errorf("%w: stored last active date: %w", errors.ErrInvalidConfiguration, err)
		}
		if gap > 1 {
			next.CurrentStreak = 0
			changed = true
		}
	}

	weekOf, err := utils.WeekStart(today)
	if err != nil {
		return state, false, err
	}
	// YYYY-MM-DD compares chronologically as a string
	if next.WeekOf != "" && weekOf > next.WeekOf {
		next.WeekOf = weekOf
		next.WeeklyActivity = [models.WeekDays]bool{}
		changed = true
	}

	return next, changed, nil
}

func markWeek(state *models.StreakState, today string) error {
	weekOf, err := utils.WeekStart(today)
	if err != nil {
		return err
	}
	if state.WeekOf != weekOf {
		state.WeekOf = weekOf
		state.WeeklyActivity = [models.WeekDays]bool{}
	}
	t, err := utils.ParseDate(today)
	if err != nil {
		return err
	}
	state.WeeklyActivity[utils.WeekdayIndex(t)] = true
	return nil
}
