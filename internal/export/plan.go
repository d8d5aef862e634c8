// Package export renders assignment plans as markdown documents with a
// YAML frontmatter block, written under the project's .crewplan/plans
// directory.
package export

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// PlanKind tags exported assignment plans in frontmatter.
const PlanKind = "assignment-plan"

const fileTimestampLayout = "20060102-150405"

// Writer persists rendered plans to a directory.
type Writer struct {
	dir string
	now func() time.Time
}

// WriterOption customizes a Writer during construction.
type WriterOption func(*Writer)

// WithClock overrides the clock used for filenames and frontmatter timestamps.
func WithClock(clock func() time.Time) WriterOption {
	return func(w *Writer) {
		if clock != nil {
			w.now = clock
		}
	}
}

// NewWriter builds a writer rooted at dir, usually Config.PlansDir().
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WritePlan renders the plan and its review to markdown and writes it to
// a timestamped file, returning the file path.
func (w *Writer) WritePlan(plan *schedule.AssignmentPlan, review schedule.PlanReview) (string, error) {
	if plan == nil {
		return "", fmt.Errorf("export: plan is nil")
	}
	now := w.now()
	meta := Metadata{
		Kind:          PlanKind,
		GeneratedAt:   now,
		ReferenceDate: plan.ReferenceDate,
		HorizonWeeks:  plan.HorizonWeeks,
		TotalTasks:    plan.Summary.TotalTasks,
		PlacedTasks:   plan.Summary.ImmediateAssignments + plan.Summary.DeferredAssignments,
		OverflowTasks: plan.Summary.OverflowTasks,
	}
	body := renderPlan(plan, review)
	content, err := WriteFrontMatter(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("export: create %s: %w", w.dir, err)
	}
	name := fmt.Sprintf("plan-%s.md", now.UTC().Format(fileTimestampLayout))
	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("export: write %s: %w", path, err)
	}
	return path, nil
}

func renderPlan(plan *schedule.AssignmentPlan, review schedule.PlanReview) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", review.Title)
	if review.Description != "" {
		fmt.Fprintf(&buf, "%s\n\n", review.Description)
	}

	if len(plan.Assignments) > 0 {
		buf.WriteString("## Assignments\n\n")
		buf.WriteString("| Task | Resource | Week | Notes |\n")
		buf.WriteString("| --- | --- | --- | --- |\n")
		for _, a := range plan.Assignments {
			fmt.Fprintf(&buf, "| %s | %s | %d | %s |\n", a.TaskID, resourceLabel(plan, a.ResourceID), a.Week, a.Justification)
		}
		buf.WriteString("\n")
	}

	if len(plan.Schedules) > 0 {
		buf.WriteString("## Weekly load\n\n")
		for _, ledger := range sortedSchedules(plan.Schedules) {
			fmt.Fprintf(&buf, "### %s\n\n", ledgerLabel(ledger))
			for _, week := range ledger.Weeks {
				if week.AssignedHours == 0 {
					continue
				}
				fmt.Fprintf(&buf, "- Week %d (%s): %dh of %dh\n",
					week.Week,
					schedule.FormatDateRange(week.StartDate, week.EndDate),
					week.AssignedHours,
					ledger.WeeklyCapacity)
			}
			buf.WriteString("\n")
		}
	}

	if len(plan.Unplaced) > 0 {
		buf.WriteString("## Unplaced\n\n")
		for _, u := range plan.Unplaced {
			fmt.Fprintf(&buf, "- %s\n", u.TaskID)
			for _, reason := range u.Reasons {
				fmt.Fprintf(&buf, "  - %s\n", reason)
			}
		}
		buf.WriteString("\n")
	}

	if len(review.Suggestions) > 0 {
		buf.WriteString("## Suggestions\n\n")
		for _, s := range review.Suggestions {
			fmt.Fprintf(&buf, "- %s\n", s)
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

func resourceLabel(plan *schedule.AssignmentPlan, resourceID string) string {
	if ledger, ok := plan.Schedules[resourceID]; ok {
		return ledgerLabel(ledger)
	}
	return resourceID
}

func ledgerLabel(ledger *schedule.WeeklySchedule) string {
	if ledger.ResourceName != "" {
		return ledger.ResourceName
	}
	return ledger.ResourceID
}

func sortedSchedules(schedules map[string]*schedule.WeeklySchedule) []*schedule.WeeklySchedule {
	out := make([]*schedule.WeeklySchedule, 0, len(schedules))
	for _, ledger := range schedules {
		out = append(out, ledger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out
}
