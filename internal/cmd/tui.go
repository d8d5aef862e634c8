package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/config"
	"github.com/mckinlee/crewplan/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive planning board",
	Long: `Launch the full-screen terminal UI. The board shows the current
assignment plan, per-resource weekly load, and the tail of the project
journal.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	if err := config.InitCrewplanDir(cwd); err != nil {
		return fmt.Errorf("initialize .crewplan: %w", err)
	}
	app, err := tui.NewApp(cwd)
	if err != nil {
		return fmt.Errorf("build tui: %w", err)
	}
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
