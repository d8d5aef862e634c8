package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mckinlee/crewplan/internal/bridge"
	"github.com/mckinlee/crewplan/internal/logbook"
	"github.com/mckinlee/crewplan/plugins"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local planning HTTP server",
	Long: `Serve the planner over HTTP. POST /plan runs the assignment
planner, POST /timelines runs the projector, GET /health reports status.
The server binds to loopback by default; see .crewplan/config.yaml.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	journal := newJournal(cfg)
	rules, err := plugins.LoadScoringRules(cfg)
	if err != nil {
		return fmt.Errorf("load scoring rules: %w", err)
	}

	settings := bridge.SettingsFromConfig(cfg)
	srv := bridge.NewServer(settings,
		bridge.WithPlannerConfig(plannerConfig(cfg)),
		bridge.WithScoringRules(rules),
		bridge.WithLogger(journalLogger{journal}))
	if err := srv.Start(cmd.Context()); err != nil {
		return err
	}
	fmt.Printf("Planning server listening on %s\n", srv.BaseURL())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	journal.Info("serve: shut down cleanly")
	return nil
}

// journalLogger adapts the project journal to the bridge's Logger.
type journalLogger struct {
	journal *logbook.Journal
}

func (l journalLogger) Printf(format string, args ...any) {
	l.journal.Info(format, args...)
}
