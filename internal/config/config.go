// Package config reads engine tuning knobs from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/julianstephens/studyline/internal/constants"
	"github.com/julianstephens/studyline/internal/errors"
	"github.com/julianstephens/studyline/internal/mock"
	"github.com/julianstephens/studyline/internal/utils"
	"github.com/julianstephens/studyline/internal/validation"
)

// Settings are the engine limits. Every field has a default so an empty
// environment is valid.
type Settings struct {
	MockHardCap         int    `env:"MOCK_HARD_CAP" validate:"min=1"`
	MockMinViable       int    `env:"MOCK_MIN_VIABLE" validate:"min=1"`
	MockSecondsPerItem  int    `env:"MOCK_SECONDS_PER_ITEM" validate:"min=1"`
	ChallengeBasePoints int    `env:"CHALLENGE_BASE_POINTS" validate:"min=0"`
	ChallengeHistoryCap int    `env:"CHALLENGE_HISTORY_CAP" validate:"min=1"`
	Timezone            string `env:"TIMEZONE"`
	AchievementsFile    string `env:"ACHIEVEMENTS_FILE"`
}

// EnvPrefix is prepended to every variable name.
const EnvPrefix = "STUDYLINE_"

func Defaults() Settings {
	return Settings{
		MockHardCap:         constants.DefaultMockHardCap,
		MockMinViable:       constants.DefaultMockMinViable,
		MockSecondsPerItem:  constants.DefaultMockSecondsPerItem,
		ChallengeBasePoints: constants.DefaultChallengeBasePoints,
		ChallengeHistoryCap: constants.DefaultChallengeHistoryCap,
		Timezone:            constants.DefaultTimezone,
	}
}

// Load reads an optional .env file from dotenvPath (skipped when empty or
// missing) and then the process environment.
func Load(dotenvPath string) (Settings, error) {
	if dotenvPath != "" {
		if _, err := os.Stat(dotenvPath); err == nil {
			if err := godotenv.Load(dotenvPath); err != nil {
				return Settings{}, fmt.Errorf("failed to read %s: %w", dotenvPath, err)
			}
		}
	}
	return parse(env.Options{Prefix: EnvPrefix})
}

func parse(opts env.Options) (Settings, error) {
	s := Defaults()
	if err := env.ParseWithOptions(&s, opts); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", errors.ErrInvalidConfiguration, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values the engines cannot work with.
func (s Settings) Validate() error {
	if err := validation.New().Struct(s); err != nil {
		return err
	}
	if s.MockMinViable > s.MockHardCap {
		return fmt.Errorf("%w: MOCK_MIN_VIABLE (%d) exceeds MOCK_HARD_CAP (%d)", errors.ErrInvalidConfiguration, s.MockMinViable, s.MockHardCap)
	}
	if !utils.ValidateTimezone(s.Timezone) {
		return fmt.Errorf("%w: invalid timezone %q", errors.ErrInvalidConfiguration, s.Timezone)
	}
	return nil
}

// MockLimits converts the settings into mock engine limits.
func (s Settings) MockLimits() mock.Limits {
	return mock.Limits{
		HardCap:   s.MockHardCap,
		MinViable: s.MockMinViable,
		PerItem:   time.Duration(s.MockSecondsPerItem) * time.Second,
	}
}
