package models

import "time"

// WeekDays is the number of slots in the weekly activity marker (Monday..Sunday)
const WeekDays = 7

// UnlockedAchievement records when a badge was first earned. It is never
// re-timestamped.
type UnlockedAchievement struct {
	BadgeID    string    `json:"badge_id"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// StreakState is the running streak of one feature instance.
type StreakState struct {
	Schema          int                   `json:"schema"`
	Feature         string                `json:"feature"`
	CurrentStreak   int                   `json:"current_streak"`
	LongestStreak   int                   `json:"longest_streak"`
	LastActiveDate  string                `json:"last_active_date,omitempty"` // YYYY-MM-DD, empty when never active
	TotalActiveDays int                   `json:"total_active_days"`
	WeekOf          string                `json:"week_of,omitempty"` // Monday of the week WeeklyActivity describes
	WeeklyActivity  [WeekDays]bool        `json:"weekly_activity"`
	Achievements    []UnlockedAchievement `json:"achievements,omitempty"`
}

// HasAchievement reports whether the badge was already unlocked
func (s StreakState) HasAchievement(badgeID string) bool {
	for _, a := range s.Achievements {
		if a.BadgeID == badgeID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state
func (s StreakState) Clone() StreakState {
	out := s
	if s.Achievements != nil {
		out.Achievements = append([]UnlockedAchievement(nil), s.Achievements...)
	}
	return out
}
