package models

import "time"

// Topic is a leaf of a study plan. IDs are unique within their Day only.
type Topic struct {
	ID          string     `json:"id"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Note        string     `json:"note,omitempty"`
}

// Day groups the topics scheduled for one calendar date of a plan.
type Day struct {
	Number      int        `json:"number"` // 1-based, unique within a plan
	Date        string     `json:"date"`   // YYYY-MM-DD format
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Topics      []Topic    `json:"topics"`
}

// AllTopicsCompleted reports whether the day counts as completed. A day with
// no topics is never completed.
func (d Day) AllTopicsCompleted() bool {
	if len(d.Topics) == 0 {
		return false
	}
	for _, t := range d.Topics {
		if !t.Completed {
			return false
		}
	}
	return true
}

// StudyPlan is the per-scope plan. CompletedDays and CompletedTopics are
// denormalized rollups; they are recomputed from Days on every mutation.
type StudyPlan struct {
	Schema          int       `json:"schema"`
	ID              string    `json:"id"`
	Scope           string    `json:"scope"`
	CreatedAt       time.Time `json:"created_at"`
	TotalDays       int       `json:"total_days"`
	TotalTopics     int       `json:"total_topics"`
	CompletedDays   int       `json:"completed_days"`
	CompletedTopics int       `json:"completed_topics"`
	LastUpdated     time.Time `json:"last_updated"`
	Days            []Day     `json:"days"`
}

// Clone returns a deep copy so a mutation can be staged without touching the
// caller's snapshot.
func (p StudyPlan) Clone() StudyPlan {
	out := p
	out.Days = make([]Day, len(p.Days))
	for i, d := range p.Days {
		nd := d
		nd.CompletedAt = cloneTime(d.CompletedAt)
		nd.Topics = make([]Topic, len(d.Topics))
		for j, t := range d.Topics {
			nt := t
			nt.CompletedAt = cloneTime(t.CompletedAt)
			nd.Topics[j] = nt
		}
		out.Days[i] = nd
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// DaySpec seeds one Day of a new plan. An empty Date is derived from the
// plan's start date and the day number.
type DaySpec struct {
	Number int      `json:"number" yaml:"number" validate:"min=1"`
	Date   string   `json:"date,omitempty" yaml:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Topics []string `json:"topics" yaml:"topics" validate:"dive,required"`
}
