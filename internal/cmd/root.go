// Package cmd wires the crewplan CLI. Each subcommand registers itself
// against the root command from its own file's init().
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/config"
	"github.com/mckinlee/crewplan/internal/logbook"
	"github.com/mckinlee/crewplan/internal/schedule"
)

var rootCmd = &cobra.Command{
	Use:   "crewplan",
	Short: "Capacity-aware task scheduling for small teams",
	Long: `Crewplan projects task backlogs onto weekly capacity ledgers and
assigns unowned work to the people who can actually absorb it. State
lives in a .crewplan directory at the project root.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig resolves the working directory and loads project config.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newJournal opens the project journal. A nil journal is safe to log to,
// so setup failures degrade to silence rather than aborting the command.
func newJournal(cfg *config.Config) *logbook.Journal {
	journal, err := logbook.New(filepath.Join(cfg.LogsDir(), "crewplan.log"))
	if err != nil {
		return nil
	}
	return journal
}

// plannerConfig translates project settings into the engine's form,
// widening the default role synonyms with any configured extras.
func plannerConfig(cfg *config.Config) schedule.PlannerConfig {
	settings := cfg.PlannerSettings()
	pc := schedule.PlannerConfig{
		HorizonWeeks:   settings.HorizonWeeks,
		HoursPerWeek:   settings.HoursPerWeek,
		UrgentPriority: settings.UrgentPriority,
	}
	if len(settings.RoleSynonyms) > 0 {
		pc.RoleSynonyms = schedule.MergeRoleSynonyms(schedule.DefaultRoleSynonyms(), settings.RoleSynonyms)
	}
	return pc
}

// parseReferenceFlag turns a --reference value into a time, empty meaning now.
func parseReferenceFlag(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	ref, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference date %q: want YYYY-MM-DD", raw)
	}
	return ref, nil
}
