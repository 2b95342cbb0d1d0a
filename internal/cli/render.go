package cli

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyline/internal/achievement"
	"github.com/julianstephens/studyline/internal/models"
)

var (
	doneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	openStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle  = lipgloss.NewStyle().Bold(true)
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

const barWidth = 24

// ProgressBar renders percent as a fixed-width bar.
func ProgressBar(percent, width int) string {
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return doneStyle.Render(strings.Repeat("█", filled)) +
		openStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %3d%%", percent)
}

func checkbox(done bool) string {
	if done {
		return doneStyle.Render("[x]")
	}
	return openStyle.Render("[ ]")
}

// WeekMarker renders the Monday..Sunday activity slots.
func WeekMarker(week [models.WeekDays]bool) string {
	labels := [models.WeekDays]string{"M", "T", "W", "T", "F", "S", "S"}
	var b strings.Builder
	for i, active := range week {
		if i > 0 {
			b.WriteByte(' ')
		}
		if active {
			b.WriteString(doneStyle.Render(labels[i]))
		} else {
			b.WriteString(openStyle.Render("·"))
		}
	}
	return b.String()
}

// TierLine describes the active tier and the distance to the next one.
func TierLine(p achievement.Projection) string {
	current := "none yet"
	if p.Active != nil {
		current = accentStyle.Render(p.Active.Name)
	}
	line := fmt.Sprintf("Tier: %s (x%.2g)", current, p.Multiplier)
	if p.Next != nil {
		line += fmt.Sprintf(", %d more day(s) to %s", p.DaysToNext, p.Next.Name)
	}
	return line
}

// suggest returns the candidate closest to target, or "" when nothing is
// within a third of the target's length.
func suggest(target string, candidates []string) string {
	best, bestDist := "", -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(target), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	limit := max(2, len(target)/3)
	if bestDist < 0 || bestDist > limit {
		return ""
	}
	return best
}
