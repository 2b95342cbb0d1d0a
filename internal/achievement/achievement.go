// Package achievement projects a streak length onto a static threshold table
// of badges and reward multipliers. It owns no mutable state.
package achievement

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/studyline/internal/errors"
)

// Tier is one row of the threshold table.
type Tier struct {
	MinStreak  int     `json:"min_streak" yaml:"min_streak"`
	BadgeID    string  `json:"badge_id" yaml:"badge_id"`
	Name       string  `json:"name" yaml:"name"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
}

// Table is ordered by strictly ascending MinStreak.
type Table []Tier

// Unlock is emitted when a streak first reaches a tier.
type Unlock struct {
	BadgeID    string
	Name       string
	UnlockedAt time.Time
}

// Projection describes where a streak sits in the table.
type Projection struct {
	Active     *Tier
	Next       *Tier
	DaysToNext int
	Multiplier float64
}

var DefaultTable = Table{
	{MinStreak: 1, BadgeID: "first_step", Name: "First Step", Multiplier: 1.0},
	{MinStreak: 3, BadgeID: "getting_started", Name: "Getting Started", Multiplier: 1.1},
	{MinStreak: 7, BadgeID: "week_warrior", Name: "Week Warrior", Multiplier: 1.25},
	{MinStreak: 14, BadgeID: "dedicated", Name: "Dedicated", Multiplier: 1.5},
	{MinStreak: 30, BadgeID: "monthly_master", Name: "Monthly Master", Multiplier: 2.0},
	{MinStreak: 100, BadgeID: "centurion", Name: "Centurion", Multiplier: 3.0},
}

// Validate checks that thresholds are positive and strictly ascending, badge
// IDs are unique and multipliers are at least 1.
func (t Table) Validate() error {
	seen := make(map[string]bool, len(t))
	for i, tier := range t {
		if tier.MinStreak < 1 {
			return fmt.Errorf("%w: tier %q has min_streak %d (must be at least 1)", errors.ErrInvalidConfiguration, tier.BadgeID, tier.MinStreak)
		}
		if i > 0 && tier.MinStreak <= t[i-1].MinStreak {
			return fmt.Errorf("%w: tier %q is not in strictly ascending order", errors.ErrInvalidConfiguration, tier.BadgeID)
		}
		if tier.BadgeID == "" {
			return fmt.Errorf("%w: tier %d has no badge_id", errors.ErrInvalidConfiguration, i+1)
		}
		if seen[tier.BadgeID] {
			return fmt.Errorf("%w: duplicate badge_id %q", errors.ErrInvalidConfiguration, tier.BadgeID)
		}
		seen[tier.BadgeID] = true
		if tier.Multiplier < 1 {
			return fmt.Errorf("%w: tier %q has multiplier %.2f (must be at least 1)", errors.ErrInvalidConfiguration, tier.BadgeID, tier.Multiplier)
		}
	}
	return nil
}

// Active returns the highest tier whose threshold does not exceed streak, or
// nil when the streak is below the first tier.
func (t Table) Active(streak int) *Tier {
	var active *Tier
	for i := range t {
		if t[i].MinStreak > streak {
			break
		}
		active = &t[i]
	}
	return active
}

// Next returns the lowest tier whose threshold exceeds streak, or nil at the
// top of the table.
func (t Table) Next(streak int) *Tier {
	for i := range t {
		if t[i].MinStreak > streak {
			return &t[i]
		}
	}
	return nil
}

// Multiplier of the active tier; 1 below the first tier.
func (t Table) Multiplier(streak int) float64 {
	if a := t.Active(streak); a != nil {
		return a.Multiplier
	}
	return 1
}

func (t Table) Project(streak int) Projection {
	p := Projection{
		Active:     t.Active(streak),
		Next:       t.Next(streak),
		Multiplier: t.Multiplier(streak),
	}
	if p.Next != nil {
		p.DaysToNext = p.Next.MinStreak - streak
	}
	return p
}

// Award applies the active multiplier to base. Rounding happens here and only
// here, half away from zero.
func (t Table) Award(base, streak int) int {
	return int(math.Round(float64(base) * t.Multiplier(streak)))
}

// Qualifying returns every tier reached by streak, lowest first.
func (t Table) Qualifying(streak int) []Tier {
	var out []Tier
	for _, tier := range t {
		if tier.MinStreak > streak {
			break
		}
		out = append(out, tier)
	}
	return out
}

// Lookup finds a tier by badge ID.
func (t Table) Lookup(badgeID string) (Tier, bool) {
	for _, tier := range t {
		if tier.BadgeID == badgeID {
			return tier, true
		}
	}
	return Tier{}, false
}
