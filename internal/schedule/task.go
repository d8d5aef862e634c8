// Package schedule implements the bandwidth-aware scheduling core:
// weekly capacity ledgers, the timeline projector, and the greedy
// assignment planner. The package is a pure computation over its
// inputs; persistence and transport live with the callers.
package schedule

import "time"

// Status is a task lifecycle state. Tasks are created and mutated
// outside this package; the engine only reads them.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Task is the scheduling view of a unit of work. EstimatedHours of zero
// means the task has no usable estimate and can never be scheduled.
// Subtasks form a tree of unbounded depth; the projector flattens it.
type Task struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	EstimatedHours int       `json:"estimatedHours"`
	Priority       int       `json:"priority"`
	Status         Status    `json:"status"`
	RequiredRole   string    `json:"requiredRole,omitempty"`
	AssignedTo     *Resource `json:"assignedTo,omitempty"`
	ParentID       string    `json:"parent,omitempty"`
	Subtasks       []Task    `json:"subtasks,omitempty"`
}

// Resource is a person (or other constrained worker) that tasks can be
// placed onto. CommittedHours models pre-existing load and applies only
// to the first week of the horizon.
type Resource struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	WeeklyCapacity int    `json:"weeklyCapacity"`
	CommittedHours int    `json:"committedHours,omitempty"`
}

// Timeline is the projector's per-task result. Zero StartDate/EndDate
// mean the task never received any placement. A task can carry real
// dates and still have Scheduled=false when the horizon ran out before
// all of its hours were placed.
type Timeline struct {
	TaskID    string    `json:"taskId"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	StartWeek int       `json:"startWeek"`
	Scheduled bool      `json:"scheduled"`
	// Dependency tracking is out of scope but part of the output
	// contract; both slices are always empty.
	BlockedBy []string `json:"blockedBy"`
	Blocks    []string `json:"blocks"`
}

// Flatten walks a task tree depth-first, parent before children, and
// returns every task in encounter order. Callers guarantee the subtask
// links form a tree, not a graph.
func Flatten(tasks []Task) []Task {
	var flat []Task
	for _, task := range tasks {
		flat = append(flat, task)
		if len(task.Subtasks) > 0 {
			flat = append(flat, Flatten(task.Subtasks)...)
		}
	}
	return flat
}

// UnassignedBacklog flattens a task tree and keeps only the tasks the
// planner is allowed to place: no assignee yet, and not already
// completed or cancelled. The planner re-plans whatever it is handed,
// so callers feeding it a raw backlog go through this first.
func UnassignedBacklog(tasks []Task) []Task {
	var open []Task
	for _, task := range Flatten(tasks) {
		if task.AssignedTo != nil {
			continue
		}
		if task.Status == StatusCompleted || task.Status == StatusCancelled {
			continue
		}
		open = append(open, task)
	}
	return open
}

// byPriority orders tasks by descending priority. Equal priorities keep
// their encounter order, so a stable sort over this comparator respects
// the original sequence for ties.
func byPriority(tasks []Task) func(i, j int) bool {
	return func(i, j int) bool {
		return tasks[i].Priority > tasks[j].Priority
	}
}
