// Package progress tracks completion of Plan -> Day -> Topic hierarchies.
// Rollup counters are recomputed from the leaves on every mutation.
package progress

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/logger"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/storage"
	"github.com/julianstephens/studyline/internal/utils"
	"github.com/julianstephens/studyline/internal/validation"
)

var (
	ErrPlanNotFound    = fmt.Errorf("plan %w", errors.ErrNotFound)
	ErrDayNotFound     = fmt.Errorf("day %w", errors.ErrNotFound)
	ErrTopicNotFound   = fmt.Errorf("topic %w", errors.ErrNotFound)
	ErrInvalidPlanSpec = fmt.Errorf("invalid plan spec: %w", errors.ErrInvalidConfiguration)
)

type DaySpec = models.DaySpec

// Summary is the read-only view shown by the CLI and TUI.
type Summary struct {
	Scope           string
	Percent         int
	CompletedDays   int
	TotalDays       int
	CompletedTopics int
	TotalTopics     int
	PrefixStreak    int
	NextDay         int // first incomplete day number, 0 when every day is done
	LastUpdated     time.Time
}

type Option func(*Tracker)

// WithClock sets the source of completion and update timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// Tracker owns every StudyPlan stored under the progress namespace.
type Tracker struct {
	kv        storage.KV
	now       func() time.Time
	validator *validation.Validator
}

func New(kv storage.KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:        kv,
		now:       time.Now,
		validator: validation.New(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func key(scope string) string {
	return storage.Key(constants.NamespaceProgress, scope)
}

// Initialize creates a fresh plan for scope, replacing any existing one.
func (t *Tracker) Initialize(scope, startDate string, specs []DaySpec) (models.StudyPlan, error) {
	if scope == "" {
		return models.StudyPlan{}, fmt.Errorf("%w: scope is required", ErrInvalidPlanSpec)
	}
	if result := t.validator.ValidatePlanSpec(startDate, specs); result.HasConflicts() {
		return models.StudyPlan{}, fmt.Errorf("%w: %w", ErrInvalidPlanSpec, result.Err())
	}

	now := t.now().UTC()
	plan := models.StudyPlan{
		Schema:      constants.SnapshotSchema,
		ID:          uuid.NewString(),
		Scope:       scope,
		CreatedAt:   now,
		LastUpdated: now,
		Days:        make([]models.Day, 0, len(specs)),
	}

	for _, spec := range specs {
		date := spec.Date
		if date == "" {
			d, err := utils.AddDays(startDate, spec.Number-1)
			if err != nil {
				return models.StudyPlan{}, fmt.Errorf("%w: %w", ErrInvalidPlanSpec, err)
			}
			date = d
		}
		day := models.Day{
			Number: spec.Number,
			Date:   date,
			Topics: make([]models.Topic, len(spec.Topics)),
		}
		for i, id := range spec.Topics {
			day.Topics[i] = models.Topic{ID: id}
		}
		plan.Days = append(plan.Days, day)
	}
	sort.Slice(plan.Days, func(i, j int) bool {
		return plan.Days[i].Number < plan.Days[j].Number
	})

	Rollup(&plan, now)

	if err := storage.SaveSnapshot(t.kv, key(scope), plan); err != nil {
		return models.StudyPlan{}, err
	}
	logger.Transition(constants.NamespaceProgress, key(scope), "Plan initialized", "days", plan.TotalDays, "topics", plan.TotalTopics)
	return plan, nil
}

// Get returns the stored plan for scope.
func (t *Tracker) Get(scope string) (models.StudyPlan, error) {
	var plan models.StudyPlan
	ok, err := storage.LoadSnapshot(t.kv, key(scope), &plan)
	if err != nil {
		return models.StudyPlan{}, err
	}
	if !ok {
		return models.StudyPlan{}, fmt.Errorf("%w: %q", ErrPlanNotFound, scope)
	}
	return plan, nil
}

// List returns every stored plan ordered by scope.
func (t *Tracker) List() ([]models.StudyPlan, error) {
	keys, err := t.kv.Keys(constants.NamespaceProgress + "/")
	if err != nil {
		return nil, errors.Persistence("list plans", err)
	}

	plans := make([]models.StudyPlan, 0, len(keys))
	for _, k := range keys {
		var plan models.StudyPlan
		ok, err := storage.LoadSnapshot(t.kv, k, &plan)
		if err != nil {
			return nil, err
		}
		if ok {
			plans = append(plans, plan)
		}
	}
	return plans, nil
}

// Delete removes the plan for scope.
func (t *Tracker) Delete(scope string) error {
	if _, err := t.Get(scope); err != nil {
		return err
	}
	if err := storage.DeleteSnapshot(t.kv, key(scope)); err != nil {
		return err
	}
	logger.Transition(constants.NamespaceProgress, key(scope), "Plan deleted")
	return nil
}

// mutate stages fn on a copy of the stored plan, recomputes rollups and
// persists. The caller only sees the new plan once the write succeeded.
func (t *Tracker) mutate(scope string, fn func(plan *models.StudyPlan, now time.Time) error) (models.StudyPlan, error) {
	current, err := t.Get(scope)
	if err != nil {
		return models.StudyPlan{}, err
	}

	next := current.Clone()
	now := t.now().UTC()
	if err := fn(&next, now); err != nil {
		return models.StudyPlan{}, err
	}
	Rollup(&next, now)
	next.LastUpdated = now

	if err := storage.SaveSnapshot(t.kv, key(scope), next); err != nil {
		return current, err
	}
	logger.Transition(constants.NamespaceProgress, key(scope), "Plan updated", "completed_topics", next.CompletedTopics, "completed_days", next.CompletedDays)
	return next, nil
}

// ToggleTopic flips one topic's completion.
func (t *Tracker) ToggleTopic(scope string, dayNumber int, topicID string) (models.StudyPlan, error) {
	return t.mutate(scope, func(plan *models.StudyPlan, now time.Time) error {
		topic, err := findTopic(plan, dayNumber, topicID)
		if err != nil {
			return err
		}
		setTopic(topic, !topic.Completed, now)
		return nil
	})
}

// ToggleDay completes every topic of the day unless all are already
// complete, in which case it clears them all.
func (t *Tracker) ToggleDay(scope string, dayNumber int) (models.StudyPlan, error) {
	return t.mutate(scope, func(plan *models.StudyPlan, now time.Time) error {
		day, err := findDay(plan, dayNumber)
		if err != nil {
			return err
		}
		target := !day.AllTopicsCompleted()
		for i := range day.Topics {
			setTopic(&day.Topics[i], target, now)
		}
		return nil
	})
}

// AnnotateTopic sets a topic's note. Completion is untouched.
func (t *Tracker) AnnotateTopic(scope string, dayNumber int, topicID, note string) (models.StudyPlan, error) {
	return t.mutate(scope, func(plan *models.StudyPlan, _ time.Time) error {
		topic, err := findTopic(plan, dayNumber, topicID)
		if err != nil {
			return err
		}
		topic.Note = note
		return nil
	})
}

func (t *Tracker) OverallCompletionPercent(scope string) (int, error) {
	plan, err := t.Get(scope)
	if err != nil {
		return 0, err
	}
	return Percent(plan), nil
}

func (t *Tracker) CurrentStreakOfCompletedDays(scope string) (int, error) {
	plan, err := t.Get(scope)
	if err != nil {
		return 0, err
	}
	return PrefixStreak(plan), nil
}

func (t *Tracker) Summary(scope string) (Summary, error) {
	plan, err := t.Get(scope)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(plan), nil
}

// Summarize builds a Summary without touching the store.
func Summarize(plan models.StudyPlan) Summary {
	s := Summary{
		Scope:           plan.Scope,
		Percent:         Percent(plan),
		CompletedDays:   plan.CompletedDays,
		TotalDays:       plan.TotalDays,
		CompletedTopics: plan.CompletedTopics,
		TotalTopics:     plan.TotalTopics,
		PrefixStreak:    PrefixStreak(plan),
		LastUpdated:     plan.LastUpdated,
	}
	for _, d := range plan.Days {
		if !d.AllTopicsCompleted() {
			s.NextDay = d.Number
			break
		}
	}
	return s
}

// Rollup recomputes every derived field of plan from its topics.
func Rollup(plan *models.StudyPlan, now time.Time) {
	plan.TotalDays = len(plan.Days)
	plan.TotalTopics = 0
	plan.CompletedTopics = 0
	plan.CompletedDays = 0

	for i := range plan.Days {
		day := &plan.Days[i]
		plan.TotalTopics += len(day.Topics)
		for _, topic := range day.Topics {
			if topic.Completed {
				plan.CompletedTopics++
			}
		}
		if day.AllTopicsCompleted() {
			plan.CompletedDays++
			if day.CompletedAt == nil {
				ts := now
				day.CompletedAt = &ts
			}
		} else {
			day.CompletedAt = nil
		}
	}
}

// Percent is completed/total topics rounded half away from zero; 0 for an
// empty plan.
func Percent(plan models.StudyPlan) int {
	if plan.TotalTopics == 0 {
		return 0
	}
	return int(math.Round(float64(plan.CompletedTopics) * 100 / float64(plan.TotalTopics)))
}

// PrefixStreak counts completed days from day 1, stopping at the first
// incomplete day.
func PrefixStreak(plan models.StudyPlan) int {
	n := 0
	for _, d := range plan.Days {
		if !d.AllTopicsCompleted() {
			break
		}
		n++
	}
	return n
}

// TopicIDs lists the topic IDs of a day, for suggestions on a bad reference.
func TopicIDs(plan models.StudyPlan, dayNumber int) []string {
	for _, d := range plan.Days {
		if d.Number == dayNumber {
			ids := make([]string, len(d.Topics))
			for i, t := range d.Topics {
				ids[i] = t.ID
			}
			return ids
		}
	}
	return nil
}

func setTopic(topic *models.Topic, completed bool, now time.Time) {
	if topic.Completed == completed {
		return
	}
	topic.Completed = completed
	if completed {
		ts := now
		topic.CompletedAt = &ts
	} else {
		topic.CompletedAt = nil
	}
}

func findDay(plan *models.StudyPlan, dayNumber int) (*models.Day, error) {
	for i := range plan.Days {
		if plan.Days[i].Number == dayNumber {
			return &plan.Days[i], nil
		}
	}
	return nil, fmt.Errorf("%w: day %d in plan %q", ErrDayNotFound, dayNumber, plan.Scope)
}

func findTopic(plan *models.StudyPlan, dayNumber int, topicID string) (*models.Topic, error) {
	day, err := findDay(plan, dayNumber)
	if err != nil {
		return nil, err
	}
	for i := range day.Topics {
		if day.Topics[i].ID == topicID {
			return &day.Topics[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q on day %d", ErrTopicNotFound, topicID, dayNumber)
}
