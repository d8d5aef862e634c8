package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mckinlee/crewplan/internal/schedule"
)

var (
	boardTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	boardDimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
	boardWarnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))
)

// renderPlanBoard shows the plan as per-resource weekly load plus the
// assignment list and any review suggestions.
func renderPlanBoard(plan *schedule.AssignmentPlan, review schedule.PlanReview, width int) string {
	if plan == nil {
		return "No plan yet. Press r to run the planner."
	}
	var sections []string
	sections = append(sections, boardTitleStyle.Render(review.Title))
	if review.Description != "" {
		sections = append(sections, review.Description)
	}

	if len(plan.Assignments) > 0 {
		var lines []string
		lines = append(lines, boardTitleStyle.Render("Assignments"))
		for _, a := range plan.Assignments {
			owner := a.ResourceID
			if ledger, ok := plan.Schedules[a.ResourceID]; ok && ledger.ResourceName != "" {
				owner = ledger.ResourceName
			}
			lines = append(lines, fmt.Sprintf("  %s → %s · week %d", a.TaskID, owner, a.Week))
			lines = append(lines, boardDimStyle.Render("    "+a.Justification))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(plan.Schedules) > 0 {
		var lines []string
		lines = append(lines, boardTitleStyle.Render("Weekly load"))
		for _, ledger := range boardSchedules(plan.Schedules) {
			name := ledger.ResourceName
			if name == "" {
				name = ledger.ResourceID
			}
			lines = append(lines, fmt.Sprintf("  %s (%dh/week)", name, ledger.WeeklyCapacity))
			for _, week := range ledger.Weeks {
				if week.AssignedHours == 0 {
					continue
				}
				bar := loadBar(week.AssignedHours, ledger.WeeklyCapacity, 16)
				lines = append(lines, fmt.Sprintf("    week %-2d %s %dh/%dh",
					week.Week, bar, week.AssignedHours, ledger.WeeklyCapacity))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(plan.Unplaced) > 0 {
		var lines []string
		lines = append(lines, boardWarnStyle.Render(fmt.Sprintf("Unplaced (%d)", len(plan.Unplaced))))
		for _, u := range plan.Unplaced {
			lines = append(lines, "  "+u.TaskID)
			for _, reason := range u.Reasons {
				lines = append(lines, boardDimStyle.Render("    - "+reason))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(review.Suggestions) > 0 {
		var lines []string
		lines = append(lines, boardTitleStyle.Render("Suggestions"))
		for _, s := range review.Suggestions {
			lines = append(lines, "  - "+s)
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	sections = append(sections, boardDimStyle.Render("r → re-run    e → export    esc → menu"))
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(sections, "\n\n"))
}

// renderTimelines lists projected delivery ranges per task.
func renderTimelines(rows []timelineRow, width int) string {
	if len(rows) == 0 {
		return "No assigned tasks to project. Assign owners first."
	}
	var lines []string
	lines = append(lines, boardTitleStyle.Render(fmt.Sprintf("Timelines (%d)", len(rows))))
	for _, row := range rows {
		label := row.ID
		if row.Title != "" {
			label = fmt.Sprintf("%s (%s)", row.Title, row.ID)
		}
		entry := fmt.Sprintf("  %s: %s", label, row.Range)
		if row.Partial {
			entry += boardWarnStyle.Render(" (partial)")
		}
		lines = append(lines, entry)
	}
	lines = append(lines, "", boardDimStyle.Render("r → re-project    esc → menu"))
	return lipgloss.NewStyle().Width(max(20, width)).Render(strings.Join(lines, "\n"))
}

// loadBar renders a fixed-width utilization bar for a week bucket.
func loadBar(assigned, capacity, cells int) string {
	if capacity <= 0 {
		return strings.Repeat("░", cells)
	}
	filled := assigned * cells / capacity
	if filled > cells {
		filled = cells
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
}

func boardSchedules(schedules map[string]*schedule.WeeklySchedule) []*schedule.WeeklySchedule {
	out := make([]*schedule.WeeklySchedule, 0, len(schedules))
	for _, ledger := range schedules {
		out = append(out, ledger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out
}
