package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a .crewplan directory in the current project",
	Long: `Create the .crewplan directory tree (config, logs, team roster,
plans, rules) and seed an empty backlog. Existing files are left alone,
so re-running init is safe.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.InitCrewplanDir(cwd); err != nil {
		return fmt.Errorf("initialize .crewplan: %w", err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(cfg.BacklogPath()); os.IsNotExist(statErr) {
		if err := backlog.SaveTasks(cfg.BacklogPath(), nil); err != nil {
			return fmt.Errorf("seed backlog: %w", err)
		}
	}
	if _, statErr := os.Stat(cfg.RosterPath()); os.IsNotExist(statErr) {
		if err := backlog.SaveResources(cfg.RosterPath(), nil); err != nil {
			return fmt.Errorf("seed roster: %w", err)
		}
	}
	fmt.Printf("Initialized %s\n", cfg.CrewplanProjectDir)
	return nil
}
