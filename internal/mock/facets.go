package mock

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/models"
)

// All matches every value of a facet.
const All = "all"

// Dimension names one facet.
type Dimension string

const (
	DimYear       Dimension = "year"
	DimSubject    Dimension = "subject"
	DimTopic      Dimension = "topic"
	DimSubtopic   Dimension = "subtopic"
	DimDifficulty Dimension = "difficulty"
)

// Dimensions lists the facets coarsest first.
var Dimensions = []Dimension{DimYear, DimSubject, DimTopic, DimSubtopic, DimDifficulty}

// ParseDimension accepts a dimension name case-insensitively.
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown facet %q", errors.ErrInvalidConfiguration, s)
}

// Facets holds one filter value per dimension. An empty value means All.
type Facets struct {
	Year       string `json:"year"`
	Subject    string `json:"subject"`
	Topic      string `json:"topic"`
	Subtopic   string `json:"subtopic"`
	Difficulty string `json:"difficulty"`
}

// AllFacets selects the whole pool.
func AllFacets() Facets {
	return Facets{Year: All, Subject: All, Topic: All, Subtopic: All, Difficulty: All}
}

// Get returns the value selected for dim.
func (f Facets) Get(dim Dimension) string {
	var v string
	switch dim {
	case DimYear:
		v = f.Year
	case DimSubject:
		v = f.Subject
	case DimTopic:
		v = f.Topic
	case DimSubtopic:
		v = f.Subtopic
	case DimDifficulty:
		v = f.Difficulty
	}
	if v == "" {
		return All
	}
	return v
}

// With sets dim to value and resets every facet that depends on it: a new
// subject resets topic and subtopic, a new topic resets subtopic. Year and
// difficulty are independent.
func (f Facets) With(dim Dimension, value string) (Facets, error) {
	if value == "" {
		value = All
	}
	out := f
	switch dim {
	case DimYear:
		out.Year = value
	case DimSubject:
		if out.Get(DimSubject) != value {
			out.Topic = All
			out.Subtopic = All
		}
		out.Subject = value
	case DimTopic:
		if out.Get(DimTopic) != value {
			out.Subtopic = All
		}
		out.Topic = value
	case DimSubtopic:
		out.Subtopic = value
	case DimDifficulty:
		out.Difficulty = value
	default:
		return f, fmt.Errorf("%w: unknown facet %q", errors.ErrInvalidConfiguration, dim)
	}
	return out, nil
}

func (f Facets) String() string {
	parts := make([]string, 0, len(Dimensions))
	for _, d := range Dimensions {
		if v := f.Get(d); v != All {
			parts = append(parts, fmt.Sprintf("%s=%s", d, v))
		}
	}
	if len(parts) == 0 {
		return All
	}
	return strings.Join(parts, " ")
}

func questionValue(q models.Question, dim Dimension) string {
	switch dim {
	case DimYear:
		return q.Year
	case DimSubject:
		return q.Subject
	case DimTopic:
		return q.Topic
	case DimSubtopic:
		return q.Subtopic
	case DimDifficulty:
		return q.Difficulty
	}
	return ""
}

func filter(pool []models.Question, dim Dimension, value string) []models.Question {
	if value == All {
		return pool
	}
	out := make([]models.Question, 0, len(pool))
	for _, q := range pool {
		if strings.EqualFold(questionValue(q, dim), value) {
			out = append(out, q)
		}
	}
	return out
}

// SelectablePool narrows pool by each selected facet in turn, coarsest first.
// Pool order is preserved.
func SelectablePool(pool []models.Question, f Facets) []models.Question {
	out := pool
	for _, d := range Dimensions {
		out = filter(out, d, f.Get(d))
	}
	if len(out) == len(pool) {
		return append([]models.Question(nil), pool...)
	}
	return out
}

// Options lists the distinct values available for dim given the selections
// on the other facets. Finer facets that depend on dim are ignored so that
// every listed value yields at least one question.
func Options(pool []models.Question, f Facets, dim Dimension) []string {
	narrowed := pool
	for _, d := range Dimensions {
		if d == dim || dependsOn(d, dim) {
			continue
		}
		narrowed = filter(narrowed, d, f.Get(d))
	}

	seen := make(map[string]bool)
	var values []string
	for _, q := range narrowed {
		v := questionValue(q, dim)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// dependsOn reports whether choosing parent resets child.
func dependsOn(child, parent Dimension) bool {
	switch parent {
	case DimSubject:
		return child == DimTopic || child == DimSubtopic
	case DimTopic:
		return child == DimSubtopic
	}
	return false
}
