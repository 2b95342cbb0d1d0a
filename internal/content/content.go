// Package content loads the static data the engines consume: the question
// pool, achievement tables and plan files.
package content

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/models"
	"github.com/julianstephens/studyline/internal/validation"
)

//go:embed sample/questions.yaml
var sampleQuestions []byte

// questionFile accepts either a bare list or a {questions: [...]} document.
type questionFile struct {
	Questions []models.Question `json:"questions" yaml:"questions"`
}

type tableFile struct {
	Tiers achievement.Table `yaml:"tiers"`
}

// PlanFile describes a study plan to initialize.
type PlanFile struct {
	Scope     string           `yaml:"scope" json:"scope"`
	StartDate string           `yaml:"start_date" json:"start_date"`
	Days      []models.DaySpec `yaml:"days" json:"days"`
}

// LoadQuestions reads a .yaml/.yml or .json question pool and validates it.
func LoadQuestions(path string) ([]models.Question, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question pool: %w", err)
	}
	questions, err := decodeQuestions(b, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}

// SampleQuestions returns the built-in pool used when no --content file is
// given.
func SampleQuestions() ([]models.Question, error) {
	return decodeQuestions(sampleQuestions, ".yaml")
}

func decodeQuestions(b []byte, ext string) ([]models.Question, error) {
	var questions []models.Question

	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(b, &questions); err != nil {
			var f questionFile
			if err2 := json.Unmarshal(b, &f); err2 != nil {
				return nil, fmt.Errorf("%w: failed to parse questions: %v", errors.ErrInvalidConfiguration, err)
			}
			questions = f.Questions
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &questions); err != nil {
			var f questionFile
			if err2 := yaml.Unmarshal(b, &f); err2 != nil {
				return nil, fmt.Errorf("%w: failed to parse questions: %v", errors.ErrInvalidConfiguration, err)
			}
			questions = f.Questions
		}
	default:
		return nil, fmt.Errorf("%w: unsupported question pool format %q (use .yaml, .yml or .json)", errors.ErrInvalidConfiguration, ext)
	}

	if result := validation.New().ValidateQuestions(questions); result.HasConflicts() {
		return nil, result.Err()
	}
	return questions, nil
}

// LoadAchievementTable reads a YAML tier list, either bare or under "tiers".
func LoadAchievementTable(path string) (achievement.Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read achievement table: %w", err)
	}

	var table achievement.Table
	if err := yaml.Unmarshal(b, &table); err != nil {
		var f tableFile
		if err2 := yaml.Unmarshal(b, &f); err2 != nil {
			return nil, fmt.Errorf("%w: failed to parse achievement table: %v", errors.ErrInvalidConfiguration, err)
		}
		table = f.Tiers
	}
	if len(table) == 0 {
		return nil, fmt.Errorf("%w: achievement table %s has no tiers", errors.ErrInvalidConfiguration, path)
	}
	for i := range table {
		if table[i].Multiplier == 0 {
			table[i].Multiplier = 1
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

// LoadPlanFile reads a plan description from YAML or JSON.
func LoadPlanFile(path string) (PlanFile, error) {
	var pf PlanFile
	b, err := os.ReadFile(path)
	if err != nil {
		return pf, fmt.Errorf("failed to read plan file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, &pf)
	default:
		err = yaml.Unmarshal(b, &pf)
	}
	if err != nil {
		return pf, fmt.Errorf("%w: failed to parse plan file: %v", errors.ErrInvalidConfiguration, err)
	}
	return pf, nil
}
