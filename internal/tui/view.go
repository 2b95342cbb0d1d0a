package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/studyline/internal/progress"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	parts := []string{m.viewTabs(), m.viewHeader(), docStyle.Render(m.planView.View())}
	switch {
	case m.err != nil:
		parts = append(parts, dangerStyle.Render("Error: "+m.err.Error()))
	case m.status != "":
		parts = append(parts, statusStyle.Render(m.status))
	}
	parts = append(parts, m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.plans))
	for i, p := range m.plans {
		if i == m.current {
			tabs = append(tabs, activeTabStyle.Render(p.Scope))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(p.Scope))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewHeader() string {
	var lines []string
	if p, ok := m.Plan(); ok {
		s := progress.Summarize(p)
		lines = append(lines,
			fmt.Sprintf("%s %3d%%  topics %d/%d  days %d/%d", bar(s.Percent, 20), s.Percent, s.CompletedTopics, s.TotalTopics, s.CompletedDays, s.TotalDays),
			fmt.Sprintf("Completed-day streak: %d", s.PrefixStreak),
		)
	}

	tier := "none"
	if m.projected.Active != nil {
		tier = m.projected.Active.Name
	}
	streakLine := fmt.Sprintf("Study streak: %d (best %d)  Tier: %s", m.streak.CurrentStreak, m.streak.LongestStreak, tierStyle.Render(tier))
	if m.projected.Next != nil {
		streakLine += fmt.Sprintf("  %d to %s", m.projected.DaysToNext, m.projected.Next.Name)
	}
	lines = append(lines, streakLine)
	return headerStyle.Render(strings.Join(lines, "\n"))
}

func bar(percent, width int) string {
	filled := max(0, min(width, percent*width/100))
	return barDoneStyle.Render(strings.Repeat("█", filled)) + barOpenStyle.Render(strings.Repeat("░", width-filled))
}
