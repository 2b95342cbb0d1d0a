package achievement

import (
	"testing"

	"github.com/julianstephens/studyline/internal/errors"
)

func TestDefaultTableIsValid(t *testing.T) {
	if err := DefaultTable.Validate(); err != nil {
		t.Fatalf("DefaultTable.Validate() = %v", err)
	}
}

func TestActiveAndNext(t *testing.T) {
	tests := []struct {
		streak     int
		wantActive string
		wantNext   string
		daysToNext int
		multiplier float64
	}{
		{0, "", "first_step", 1, 1},
		{1, "first_step", "getting_started", 2, 1},
		{2, "first_step", "getting_started", 1, 1},
		{3, "getting_started", "week_warrior", 4, 1.1},
		{13, "week_warrior", "dedicated", 1, 1.25},
		{30, "monthly_master", "centurion", 70, 2},
		{100, "centurion", "", 0, 3},
		{365, "centurion", "", 0, 3},
	}

	for _, tt := range tests {
		p := DefaultTable.Project(tt.streak)

		gotActive := ""
		if p.Active != nil {
			gotActive = p.Active.BadgeID
		}
		gotNext := ""
		if p.Next != nil {
			gotNext = p.Next.BadgeID
		}
		if gotActive != tt.wantActive {
			t.Errorf("streak %d: active = %q, want %q", tt.streak, gotActive, tt.wantActive)
		}
		if gotNext != tt.wantNext {
			t.Errorf("streak %d: next = %q, want %q", tt.streak, gotNext, tt.wantNext)
		}
		if p.DaysToNext != tt.daysToNext {
			t.Errorf("streak %d: daysToNext = %d, want %d", tt.streak, p.DaysToNext, tt.daysToNext)
		}
		if p.Multiplier != tt.multiplier {
			t.Errorf("streak %d: multiplier = %v, want %v", tt.streak, p.Multiplier, tt.multiplier)
		}
	}
}

func TestAwardRoundsAtAwardTime(t *testing.T) {
	tests := []struct {
		name   string
		base   int
		streak int
		want   int
	}{
		{"no tier", 10, 0, 10},
		{"x1.1 rounds down", 10, 3, 11},
		{"x1.25 rounds half away from zero", 10, 7, 13},
		{"x1.25 exact", 4, 7, 5},
		{"x1.5", 7, 14, 11},
		{"x3", 10, 100, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DefaultTable.Award(tt.base, tt.streak); got != tt.want {
				t.Errorf("Award(%d, %d) = %d, want %d", tt.base, tt.streak, got, tt.want)
			}
		})
	}
}

func TestQualifying(t *testing.T) {
	got := DefaultTable.Qualifying(7)
	want := []string{"first_step", "getting_started", "week_warrior"}
	if len(got) != len(want) {
		t.Fatalf("Qualifying(7) returned %d tiers, want %d", len(got), len(want))
	}
	for i, tier := range got {
		if tier.BadgeID != want[i] {
			t.Errorf("tier %d = %q, want %q", i, tier.BadgeID, want[i])
		}
	}
	if len(DefaultTable.Qualifying(0)) != 0 {
		t.Error("a zero streak qualifies for nothing")
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	tests := []struct {
		name  string
		table Table
	}{
		{"not ascending", Table{{MinStreak: 3, BadgeID: "a", Multiplier: 1}, {MinStreak: 3, BadgeID: "b", Multiplier: 1}}},
		{"zero threshold", Table{{MinStreak: 0, BadgeID: "a", Multiplier: 1}}},
		{"multiplier below one", Table{{MinStreak: 1, BadgeID: "a", Multiplier: 0.5}}},
		{"duplicate badge", Table{{MinStreak: 1, BadgeID: "a", Multiplier: 1}, {MinStreak: 2, BadgeID: "a", Multiplier: 1}}},
		{"missing badge id", Table{{MinStreak: 1, Multiplier: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.table.Validate(); !errors.IsInvalidConfiguration(err) {
				t.Errorf("Validate() = %v, want invalid configuration", err)
			}
		})
	}
}

func TestEmptyTable(t *testing.T) {
	var table Table
	if table.Active(10) != nil || table.Next(10) != nil {
		t.Error("empty table has no tiers")
	}
	if got := table.Award(10, 50); got != 10 {
		t.Errorf("Award on empty table = %d, want 10", got)
	}
}
