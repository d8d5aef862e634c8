package schedule

import (
	"sort"
	"time"
)

// ProjectionHorizon is how many weeks ahead the projector simulates.
const ProjectionHorizon = 12

// Project replays already-assigned tasks onto fresh weekly ledgers and
// computes each task's earliest feasible start and end dates. It never
// decides who should do a task; it only simulates placement for tasks
// that already carry an assignee and a positive estimate. A zero
// reference date means "now".
//
// The projector is the one algorithm in this package allowed to split a
// task across consecutive weeks: each week absorbs as much of the
// remaining hours as it has room for.
func Project(tasks []Task, ref time.Time) (map[string]Timeline, map[string]*WeeklySchedule) {
	if ref.IsZero() {
		ref = time.Now()
	}
	flat := Flatten(tasks)
	ledgers := buildLedgers(flat, ref)
	timelines := make(map[string]Timeline, len(flat))

	var eligible []Task
	for _, task := range flat {
		if task.AssignedTo == nil || task.EstimatedHours <= 0 || task.Status == StatusCompleted {
			timelines[task.ID] = unscheduledTimeline(task.ID)
			continue
		}
		eligible = append(eligible, task)
	}
	sort.SliceStable(eligible, byPriority(eligible))

	for _, task := range eligible {
		ledger, ok := ledgers[task.AssignedTo.ID]
		if !ok {
			timelines[task.ID] = unscheduledTimeline(task.ID)
			continue
		}
		timelines[task.ID] = fillForward(ledger, task, ref)
	}
	return timelines, ledgers
}

// buildLedgers collects every resource referenced by the flattened
// tasks, deduplicated by id with the first occurrence winning, and
// opens a clamped ledger for each.
func buildLedgers(flat []Task, ref time.Time) map[string]*WeeklySchedule {
	ledgers := make(map[string]*WeeklySchedule)
	for _, task := range flat {
		res := task.AssignedTo
		if res == nil || res.ID == "" {
			continue
		}
		if _, seen := ledgers[res.ID]; seen {
			continue
		}
		ledger := NewSchedule(*res, ProjectionHorizon, ref)
		ledger.SeedCommitted(res.CommittedHours, true)
		ledgers[res.ID] = ledger
	}
	return ledgers
}

// fillForward walks weeks in order placing whatever fits until the task
// is exhausted or the horizon is. Partial placement leaves real dates
// behind with Scheduled=false.
func fillForward(ledger *WeeklySchedule, task Task, ref time.Time) Timeline {
	remaining := task.EstimatedHours
	firstWeek, lastWeek := 0, 0
	for n := 1; n <= len(ledger.Weeks) && remaining > 0; n++ {
		available := ledger.Weeks[n-1].AvailableHours
		if available <= 0 {
			continue
		}
		hours := remaining
		if hours > available {
			hours = available
		}
		ledger.place(n, task, hours)
		remaining -= hours
		if firstWeek == 0 {
			firstWeek = n
		}
		lastWeek = n
	}
	if firstWeek == 0 {
		return unscheduledTimeline(task.ID)
	}
	return Timeline{
		TaskID:    task.ID,
		StartDate: WeekStart(ref, firstWeek),
		EndDate:   WeekEnd(ref, lastWeek),
		StartWeek: firstWeek,
		Scheduled: remaining == 0,
		BlockedBy: []string{},
		Blocks:    []string{},
	}
}

func unscheduledTimeline(taskID string) Timeline {
	return Timeline{
		TaskID:    taskID,
		Scheduled: false,
		BlockedBy: []string{},
		Blocks:    []string{},
	}
}
