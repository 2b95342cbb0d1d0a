package validation

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictEmptyPlan           ConflictType = "empty_plan"
	ConflictInvalidDayNumber    ConflictType = "invalid_day_number"
	ConflictDuplicateDayNumber  ConflictType = "duplicate_day_number"
	ConflictDuplicateTopicID    ConflictType = "duplicate_topic_id"
	ConflictEmptyTopicID        ConflictType = "empty_topic_id"
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictDuplicateQuestionID ConflictType = "duplicate_question_id"
	ConflictInvalidQuestion     ConflictType = "invalid_question"
	ConflictAnswerOutOfRange    ConflictType = "answer_out_of_range"
)

// Conflict represents a single problem found in a plan spec or content pool
type Conflict struct {
	Type        ConflictType
	Description string
	Day         int      // day number (if applicable)
	Items       []string // topic or question IDs involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

// Err returns nil when there are no conflicts, otherwise an error wrapping
// ErrInvalidConfiguration.
func (vr *ValidationResult) Err() error {
	if !vr.HasConflicts() {
		return nil
	}
	descs := make([]string, len(vr.Conflicts))
	for i, c := range vr.Conflicts {
		descs[i] = c.Description
	}
	return fmt.Errorf("%w: %s", errors.ErrInvalidConfiguration, strings.Join(descs, "; "))
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks plan specs, question pools and settings structs
type Validator struct {
	v *validator.Validate
}

// New creates a new Validator
func New() *Validator {
	return &Validator{v: validator.New(validator.WithRequiredStructEnabled())}
}

// Struct runs tag validation on s. Failures wrap ErrInvalidConfiguration.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if stderrors.As(err, &fieldErrs) {
		msgs := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			msgs = append(msgs, describe(fe))
		}
		return fmt.Errorf("%w: %s", errors.ErrInvalidConfiguration, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", errors.ErrInvalidConfiguration, err)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "min":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", fe.Namespace(), fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", fe.Namespace())
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Namespace(), fe.Tag())
	}
}

// ValidatePlanSpec checks day specs before a plan is created. Nothing is
// written when the result has conflicts.
func (v *Validator) ValidatePlanSpec(startDate string, days []models.DaySpec) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	if len(days) == 0 {
		result.add(Conflict{
			Type:        ConflictEmptyPlan,
			Description: "Plan has no days",
		})
	}

	if startDate != "" && !utils.ValidateDate(startDate) {
		result.add(Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("Invalid start date %q (expected YYYY-MM-DD)", startDate),
		})
	}

	seenDays := make(map[int]bool, len(days))
	for _, d := range days {
		if d.Number < 1 {
			result.add(Conflict{
				Type:        ConflictInvalidDayNumber,
				Description: fmt.Sprintf("Day number %d is invalid (days are numbered from 1)", d.Number),
				Day:         d.Number,
			})
		} else if seenDays[d.Number] {
			result.add(Conflict{
				Type:        ConflictDuplicateDayNumber,
				Description: fmt.Sprintf("Day %d is defined more than once", d.Number),
				Day:         d.Number,
			})
		}
		seenDays[d.Number] = true

		if d.Date != "" && !utils.ValidateDate(d.Date) {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Day %d has invalid date %q (expected YYYY-MM-DD)", d.Number, d.Date),
				Day:         d.Number,
			})
		}
		if d.Date == "" && startDate == "" {
			result.add(Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Day %d has no date and the plan has no start date", d.Number),
				Day:         d.Number,
			})
		}

		seenTopics := make(map[string]bool, len(d.Topics))
		var dupes []string
		for _, id := range d.Topics {
			if strings.TrimSpace(id) == "" {
				result.add(Conflict{
					Type:        ConflictEmptyTopicID,
					Description: fmt.Sprintf("Day %d has an empty topic ID", d.Number),
					Day:         d.Number,
				})
				continue
			}
			if seenTopics[id] {
				dupes = append(dupes, id)
			}
			seenTopics[id] = true
		}
		if len(dupes) > 0 {
			result.add(Conflict{
				Type:        ConflictDuplicateTopicID,
				Description: fmt.Sprintf("Day %d has duplicate topic IDs: %s", d.Number, strings.Join(dupes, ", ")),
				Day:         d.Number,
				Items:       dupes,
			})
		}
	}

	return result
}

// ValidateQuestions checks a content pool: IDs are unique, every record passes
// its tag validation and every answer index points at an option.
func (v *Validator) ValidateQuestions(questions []models.Question) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]bool, len(questions))
	for i, q := range questions {
		if err := v.Struct(q); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidQuestion,
				Description: fmt.Sprintf("Question #%d (%q): %v", i+1, q.ID, err),
				Items:       []string{q.ID},
			})
		}
		if q.ID != "" && seen[q.ID] {
			result.add(Conflict{
				Type:        ConflictDuplicateQuestionID,
				Description: fmt.Sprintf("Question ID %q is used more than once", q.ID),
				Items:       []string{q.ID},
			})
		}
		seen[q.ID] = true

		if len(q.Options) > 0 && (q.Answer < 0 || q.Answer >= len(q.Options)) {
			result.add(Conflict{
				Type:        ConflictAnswerOutOfRange,
				Description: fmt.Sprintf("Question %q has answer index %d but only %d options", q.ID, q.Answer, len(q.Options)),
				Items:       []string{q.ID},
			})
		}
	}

	return result
}
