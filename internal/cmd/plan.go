package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/export"
	"github.com/mckinlee/crewplan/internal/schedule"
	"github.com/mckinlee/crewplan/plugins"
)

var (
	planReference string
	planExport    bool
	planAsJSON    bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Assign unowned backlog tasks to team members",
	Long: `Run the assignment planner over the backlog and team roster.
Tasks are considered in priority order and placed into the earliest week
with enough free capacity on a role-compatible resource.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVar(&planReference, "reference", "", "reference date (YYYY-MM-DD), defaults to today")
	planCmd.Flags().BoolVar(&planExport, "export", false, "write the plan as markdown under .crewplan/plans")
	planCmd.Flags().BoolVar(&planAsJSON, "json", false, "emit the raw plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
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
	resources, err := backlog.LoadResources(cfg.RosterPath(), settings.HoursPerWeek)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}
	rules, err := plugins.LoadScoringRules(cfg)
	if err != nil {
		return fmt.Errorf("load scoring rules: %w", err)
	}

	ref, err := parseReferenceFlag(planReference)
	if err != nil {
		return err
	}
	opts := []schedule.PlannerOption{schedule.WithScoringRules(rules)}
	if !ref.IsZero() {
		opts = append(opts, schedule.WithClock(func() time.Time { return ref }))
	}
	planner, err := schedule.NewPlanner(plannerConfig(cfg), opts...)
	if err != nil {
		return err
	}

	plan := planner.Plan(schedule.UnassignedBacklog(tasks), resources)
	review := schedule.Review(plan)
	journal.Info("plan: %d of %d tasks placed, %d overflow",
		plan.Summary.ImmediateAssignments+plan.Summary.DeferredAssignments,
		plan.Summary.TotalTasks,
		plan.Summary.OverflowTasks)

	if planAsJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(plan); err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
	} else {
		printPlan(plan, review)
	}

	if planExport {
		writer := export.NewWriter(cfg.PlansDir())
		path, err := writer.WritePlan(plan, review)
		if err != nil {
			return err
		}
		journal.Info("plan exported to %s", path)
		fmt.Printf("\nExported plan to %s\n", path)
	}
	return nil
}

func printPlan(plan *schedule.AssignmentPlan, review schedule.PlanReview) {
	fmt.Println(review.Title)
	if review.Description != "" {
		fmt.Println(review.Description)
	}
	if len(plan.Assignments) > 0 {
		fmt.Println()
		for _, a := range plan.Assignments {
			fmt.Printf("  %s -> %s (week %d): %s\n", a.TaskID, a.ResourceID, a.Week, a.Justification)
		}
	}
	if len(plan.Unplaced) > 0 {
		fmt.Println("\nUnplaced:")
		for _, u := range plan.Unplaced {
			fmt.Printf("  %s\n", u.TaskID)
			for _, reason := range u.Reasons {
				fmt.Printf("    - %s\n", reason)
			}
		}
	}
	if len(review.Suggestions) > 0 {
		fmt.Println("\nSuggestions:")
		for _, s := range review.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}
