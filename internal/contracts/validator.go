// Package contracts checks the cross-file invariants the tolerant
// loaders cannot fix on their own: duplicate identifiers, dangling
// assignee references, and roles no one on the roster can cover.
package contracts

import (
	"fmt"
	"strings"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/schedule"
)

// ValidateTasks checks the flattened task tree for structural problems.
func ValidateTasks(tasks []schedule.Task) []error {
	var errs []error
	seen := map[string]struct{}{}
	for _, task := range schedule.Flatten(tasks) {
		if task.ID == "" {
			errs = append(errs, fmt.Errorf("task %q has no id", task.Title))
			continue
		}
		if _, exists := seen[task.ID]; exists {
			errs = append(errs, fmt.Errorf("duplicate task id %q", task.ID))
		}
		seen[task.ID] = struct{}{}
		if task.EstimatedHours < 0 {
			errs = append(errs, fmt.Errorf("task %q has negative estimate %d", task.ID, task.EstimatedHours))
		}
		if task.AssignedTo != nil && strings.TrimSpace(task.AssignedTo.ID) == "" {
			errs = append(errs, fmt.Errorf("task %q has an assignee without an id", task.ID))
		}
	}
	return errs
}

// ValidateRoster checks roster entries for duplicates and unusable capacity.
func ValidateRoster(entries []backlog.ResourceEntry) []error {
	var errs []error
	seen := map[string]struct{}{}
	for index, entry := range entries {
		id := strings.TrimSpace(entry.ID)
		if id == "" && strings.TrimSpace(entry.Name) == "" {
			errs = append(errs, fmt.Errorf("roster entry %d has neither id nor name", index))
			continue
		}
		if id != "" {
			if _, exists := seen[id]; exists {
				errs = append(errs, fmt.Errorf("duplicate resource id %q", id))
			}
			seen[id] = struct{}{}
		}
		if entry.WeeklyCapacity < 0 {
			errs = append(errs, fmt.Errorf("resource %q has negative weekly capacity", label(entry)))
		}
		if entry.CommittedHours > entry.WeeklyCapacity && entry.WeeklyCapacity > 0 {
			errs = append(errs, fmt.Errorf("resource %q commits %dh against %dh capacity",
				label(entry), entry.CommittedHours, entry.WeeklyCapacity))
		}
	}
	return errs
}

// CheckAssignments flags tasks whose assignee is missing from the roster
// and required roles no roster member can take.
func CheckAssignments(tasks []schedule.Task, resources []schedule.Resource, synonyms map[string][]string) []error {
	if synonyms == nil {
		synonyms = schedule.DefaultRoleSynonyms()
	}
	known := map[string]struct{}{}
	for _, res := range resources {
		known[res.ID] = struct{}{}
	}
	var errs []error
	for _, task := range schedule.Flatten(tasks) {
		if task.AssignedTo != nil {
			if _, ok := known[task.AssignedTo.ID]; !ok {
				errs = append(errs, fmt.Errorf("task %q assigned to unknown resource %q", task.ID, task.AssignedTo.ID))
			}
			continue
		}
		role := strings.TrimSpace(task.RequiredRole)
		if role == "" || task.Status == schedule.StatusCompleted || task.Status == schedule.StatusCancelled {
			continue
		}
		covered := false
		for _, res := range resources {
			if schedule.RoleCompatible(role, res.Role, synonyms) {
				covered = true
				break
			}
		}
		if !covered {
			errs = append(errs, fmt.Errorf("no roster member covers role %q needed by task %q", role, task.ID))
		}
	}
	return errs
}

func label(entry backlog.ResourceEntry) string {
	if strings.TrimSpace(entry.ID) != "" {
		return entry.ID
	}
	return entry.Name
}
