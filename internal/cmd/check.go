package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/contracts"
	"github.com/mckinlee/crewplan/internal/schedule"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the backlog and roster for planning problems",
	Long: `Check the planning inputs for problems the tolerant loaders cannot
repair: duplicate ids, assignees missing from the roster, and required
roles nobody on the team can cover.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	journal := newJournal(cfg)
	settings := cfg.PlannerSettings()

	synonyms := schedule.DefaultRoleSynonyms()
	if len(settings.RoleSynonyms) > 0 {
		synonyms = schedule.MergeRoleSynonyms(synonyms, settings.RoleSynonyms)
	}
	report, err := contracts.ValidateProjectFiles(cfg.BacklogPath(), cfg.RosterPath(), settings.HoursPerWeek, synonyms)
	if err != nil {
		return err
	}
	if report.IsValid() {
		fmt.Println("Backlog and roster look consistent.")
		journal.Info("check: backlog and roster valid")
		return nil
	}
	for _, issue := range report.Errors {
		fmt.Printf("  - %v\n", issue)
	}
	journal.Warn("check: %d issue(s) found", len(report.Errors))
	return fmt.Errorf("%d validation issue(s)", len(report.Errors))
}
