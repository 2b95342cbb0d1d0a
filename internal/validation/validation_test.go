package validation

import (
	"strings"
	"testing"

	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/models"
)

func hasConflict(result ValidationResult, ct ConflictType) bool {
	for _, c := range result.Conflicts {
		if c.Type == ct {
			return true
		}
	}
	return false
}

func TestValidatePlanSpec(t *testing.T) {
	tests := []struct {
		name      string
		startDate string
		days      []models.DaySpec
		want      ConflictType
	}{
		{
			name:      "valid",
			startDate: "2025-03-01",
			days: []models.DaySpec{
				{Number: 1, Topics: []string{"cells", "mitosis"}},
				{Number: 2, Date: "2025-03-05", Topics: []string{"cells"}},
				{Number: 3},
			},
		},
		{name: "no days", startDate: "2025-03-01", want: ConflictEmptyPlan},
		{
			name:      "zero day number",
			startDate: "2025-03-01",
			days:      []models.DaySpec{{Number: 0, Topics: []string{"a"}}},
			want:      ConflictInvalidDayNumber,
		},
		{
			name:      "duplicate day number",
			startDate: "2025-03-01",
			days:      []models.DaySpec{{Number: 1}, {Number: 1}},
			want:      ConflictDuplicateDayNumber,
		},
		{
			name:      "duplicate topic in a day",
			startDate: "2025-03-01",
			days:      []models.DaySpec{{Number: 1, Topics: []string{"a", "b", "a"}}},
			want:      ConflictDuplicateTopicID,
		},
		{
			name:      "empty topic",
			startDate: "2025-03-01",
			days:      []models.DaySpec{{Number: 1, Topics: []string{" "}}},
			want:      ConflictEmptyTopicID,
		},
		{
			name:      "bad start date",
			startDate: "03/01/2025",
			days:      []models.DaySpec{{Number: 1}},
			want:      ConflictInvalidDate,
		},
		{
			name: "no date anywhere",
			days: []models.DaySpec{{Number: 1}},
			want: ConflictInvalidDate,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidatePlanSpec(tt.startDate, tt.days)
			if tt.want == "" {
				if result.HasConflicts() {
					t.Fatalf("expected no conflicts, got: %s", result.FormatReport())
				}
				if result.Err() != nil {
					t.Errorf("Err() = %v, want nil", result.Err())
				}
				return
			}
			if !hasConflict(result, tt.want) {
				t.Fatalf("expected %s conflict, got: %s", tt.want, result.FormatReport())
			}
			if !errors.IsInvalidConfiguration(result.Err()) {
				t.Errorf("Err() = %v, want invalid configuration", result.Err())
			}
		})
	}
}

func TestTopicIDsOnlyUniqueWithinDay(t *testing.T) {
	result := New().ValidatePlanSpec("2025-03-01", []models.DaySpec{
		{Number: 1, Topics: []string{"review"}},
		{Number: 2, Topics: []string{"review"}},
	})
	if result.HasConflicts() {
		t.Errorf("same topic ID on different days is allowed, got: %s", result.FormatReport())
	}
}

func TestValidateQuestions(t *testing.T) {
	good := models.Question{ID: "q1", Prompt: "2+2?", Options: []string{"3", "4"}, Answer: 1}

	tests := []struct {
		name      string
		questions []models.Question
		want      ConflictType
	}{
		{name: "valid", questions: []models.Question{good}},
		{name: "duplicate id", questions: []models.Question{good, good}, want: ConflictDuplicateQuestionID},
		{
			name:      "answer out of range",
			questions: []models.Question{{ID: "q2", Prompt: "?", Options: []string{"a", "b"}, Answer: 2}},
			want:      ConflictAnswerOutOfRange,
		},
		{
			name:      "missing prompt",
			questions: []models.Question{{ID: "q3", Options: []string{"a", "b"}}},
			want:      ConflictInvalidQuestion,
		},
		{
			name:      "single option",
			questions: []models.Question{{ID: "q4", Prompt: "?", Options: []string{"a"}}},
			want:      ConflictInvalidQuestion,
		},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateQuestions(tt.questions)
			if tt.want == "" {
				if result.HasConflicts() {
					t.Fatalf("expected no conflicts, got: %s", result.FormatReport())
				}
				return
			}
			if !hasConflict(result, tt.want) {
				t.Errorf("expected %s conflict, got: %s", tt.want, result.FormatReport())
			}
		})
	}
}

func TestStructWrapsInvalidConfiguration(t *testing.T) {
	err := New().Struct(models.DaySpec{Number: 0, Date: "tomorrow"})
	if !errors.IsInvalidConfiguration(err) {
		t.Fatalf("Struct() = %v, want invalid configuration", err)
	}
	for _, want := range []string{"Number must be at least 1", "YYYY-MM-DD"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}

func TestFormatReportNoConflicts(t *testing.T) {
	var r ValidationResult
	if got := r.FormatReport(); got != "No conflicts detected." {
		t.Errorf("FormatReport() = %q", got)
	}
}
