package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/schedule"
)

var projectReference string

var projectCmd = &cobra.Command{
	Use:     "project",
	Aliases: []string{"timeline"},
	Short:   "Project delivery timelines for assigned tasks",
	Long: `Project each assigned task onto its owner's weekly capacity and
print the resulting start/end dates. Tasks that cannot fit inside the
projection horizon show as not scheduled.`,
	Args: cobra.NoArgs,
	RunE: runProject,
}

func init() {
	projectCmd.Flags().StringVar(&projectReference, "reference", "", "reference date (YYYY-MM-DD), defaults to today")
	rootCmd.AddCommand(projectCmd)
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	journal := newJournal(cfg)
	settings := cfg.PlannerSettings()

	tasks, err := backlog.LoadTasks(cfg.BacklogPath(), settings.HoursPerWeek)
	if err != nil {
		return fmt.Errorf("load backlog: %w", err)
	}
	ref, err := parseReferenceFlag(projectReference)
	if err != nil {
		return err
	}
	if ref.IsZero() {
		ref = time.Now()
	}

	timelines, schedules := schedule.Project(tasks, ref)
	journal.Info("timeline: projected %d tasks across %d resources", len(timelines), len(schedules))

	titles := taskTitles(tasks)
	ids := make([]string, 0, len(timelines))
	for id := range timelines {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		tl := timelines[id]
		label := id
		if title := titles[id]; title != "" {
			label = fmt.Sprintf("%s (%s)", title, id)
		}
		status := schedule.FormatDateRange(tl.StartDate, tl.EndDate)
		if !tl.Scheduled && !tl.StartDate.IsZero() {
			status += " (partial)"
		}
		fmt.Printf("  %s: %s\n", label, status)
	}
	return nil
}

func taskTitles(tasks []schedule.Task) map[string]string {
	titles := make(map[string]string)
	for _, task := range schedule.Flatten(tasks) {
		titles[task.ID] = task.Title
	}
	return titles
}
