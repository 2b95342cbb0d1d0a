package models

// ChallengeEntry is one day of daily challenge history
type ChallengeEntry struct {
	Date         string `json:"date"` // YYYY-MM-DD format
	QuestionID   string `json:"question_id"`
	Correct      bool   `json:"correct"`
	PointsEarned int    `json:"points_earned"`
}

// DailyChallengeState is the persisted daily challenge progress of one feature.
type DailyChallengeState struct {
	Schema            int              `json:"schema"`
	Feature           string           `json:"feature"`
	LastCompletedDate string           `json:"last_completed_date,omitempty"`
	Completed         bool             `json:"completed"`
	Correct           bool             `json:"correct"`
	Streak            int              `json:"streak"`
	TotalScore        int              `json:"total_score"`
	History           []ChallengeEntry `json:"history,omitempty"` // most recent first
}

// Clone returns a deep copy of the state
func (s DailyChallengeState) Clone() DailyChallengeState {
	out := s
	if s.History != nil {
		out.History = append([]ChallengeEntry(nil), s.History...)
	}
	return out
}
