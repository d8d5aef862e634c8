package contracts

import (
	"fmt"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/schedule"
)

// Report captures validation results for a project's planning inputs.
type Report struct {
	BacklogPath string
	RosterPath  string
	Errors      []error
}

// IsValid reports whether the validation passed.
func (r *Report) IsValid() bool {
	return r != nil && len(r.Errors) == 0
}

// ValidateProjectFiles reads the backlog and roster from disk and runs
// every check. IO failures abort; validation findings accumulate in the
// report.
func ValidateProjectFiles(backlogPath, rosterPath string, defaultCapacity int, synonyms map[string][]string) (*Report, error) {
	tasks, err := backlog.LoadTasks(backlogPath, defaultCapacity)
	if err != nil {
		return nil, fmt.Errorf("read backlog: %w", err)
	}
	entries, err := backlog.LoadResourceEntries(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	resources, err := backlog.LoadResources(rosterPath, defaultCapacity)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}
	report := &Report{
		BacklogPath: backlogPath,
		RosterPath:  rosterPath,
	}
	report.Errors = append(report.Errors, ValidateTasks(tasks)...)
	report.Errors = append(report.Errors, ValidateRoster(entries)...)
	report.Errors = append(report.Errors, CheckAssignments(tasks, resources, synonyms)...)
	return report, nil
}

// ValidateProject ensures in-memory planning inputs are consistent.
func ValidateProject(tasks []schedule.Task, entries []backlog.ResourceEntry, resources []schedule.Resource, synonyms map[string][]string) []error {
	var errs []error
	errs = append(errs, ValidateTasks(tasks)...)
	errs = append(errs, ValidateRoster(entries)...)
	errs = append(errs, CheckAssignments(tasks, resources, synonyms)...)
	return errs
}
