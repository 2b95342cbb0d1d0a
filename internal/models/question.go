package models

// Question is one record of the static content pool used by mock tests and
// the daily challenge.
type Question struct {
	ID          string   `json:"id" yaml:"id" validate:"required"`
	Year        string   `json:"year" yaml:"year"`
	Subject     string   `json:"subject" yaml:"subject"`
	Topic       string   `json:"topic" yaml:"topic"`
	Subtopic    string   `json:"subtopic,omitempty" yaml:"subtopic,omitempty"`
	Difficulty  string   `json:"difficulty" yaml:"difficulty"`
	Prompt      string   `json:"prompt" yaml:"prompt" validate:"required"`
	Options     []string `json:"options" yaml:"options" validate:"min=2,dive,required"`
	Answer      int      `json:"answer" yaml:"answer" validate:"min=0"` // index into Options
	Explanation string   `json:"explanation,omitempty" yaml:"explanation,omitempty"`
}

// IsCorrect reports whether the option index answers the question
func (q Question) IsCorrect(option int) bool {
	return option == q.Answer
}
