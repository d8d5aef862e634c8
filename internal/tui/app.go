// Package tui implements the full-screen planning board. It follows The
// Elm Architecture as bubbletea frames it: a model holding all state, an
// Update function folding messages into the model, and a View rendering
// the model to a string.
package tui

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mckinlee/crewplan/internal/backlog"
	"github.com/mckinlee/crewplan/internal/config"
	"github.com/mckinlee/crewplan/internal/export"
	"github.com/mckinlee/crewplan/internal/logbook"
	"github.com/mckinlee/crewplan/internal/schedule"
	"github.com/mckinlee/crewplan/plugins"
)

// appState represents which "screen" we're on.
type appState int

const (
	stateMainMenu appState = iota
	statePlanBoard
	stateTimelineView
)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithClock pins the reference date used for planning and projection.
func WithClock(clock func() time.Time) AppOption {
	return func(a *App) {
		if clock != nil {
			a.clock = clock
		}
	}
}

type planReadyMsg struct {
	plan   *schedule.AssignmentPlan
	review schedule.PlanReview
	err    error
}

type timelinesReadyMsg struct {
	rows []timelineRow
	err  error
}

type exportDoneMsg struct {
	path string
	err  error
}

type timelineRow struct {
	ID      string
	Title   string
	Range   string
	Partial bool
}

// App is the main application model. In bubbletea, this holds ALL state.
type App struct {
	state   appState
	config  *config.Config
	journal *logbook.Journal
	clock   func() time.Time

	mainMenu  list.Model
	statusMsg string

	plan         *schedule.AssignmentPlan
	review       schedule.PlanReview
	timelineRows []timelineRow
	boardErr     string

	width  int
	height int
}

// menuItem implements the list.Item interface for menu entries.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// NewApp creates the application model rooted at projectDir.
func NewApp(projectDir string, opts ...AppOption) (*App, error) {
	cfg, err := config.NewConfig(projectDir)
	if err != nil {
		return nil, err
	}
	journal, jerr := logbook.New(filepath.Join(cfg.LogsDir(), "crewplan.log"))
	if jerr == nil {
		journal.Info("Board opened for %s", projectDir)
	}

	mainMenu := list.New(buildMainMenu(), list.NewDefaultDelegate(), 0, 0)
	mainMenu.Title = "⬡ CREWPLAN"
	mainMenu.SetShowStatusBar(false)
	mainMenu.SetFilteringEnabled(false)

	app := &App{
		state:    stateMainMenu,
		config:   cfg,
		journal:  journal,
		clock:    time.Now,
		mainMenu: mainMenu,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	return app, nil
}

func buildMainMenu() []list.Item {
	return []list.Item{
		menuItem{title: "Run Plan", desc: "Assign unowned tasks across the team"},
		menuItem{title: "View Timelines", desc: "Project delivery dates for assigned work"},
		menuItem{title: "Export Plan", desc: "Write the current plan to .crewplan/plans"},
		menuItem{title: "Exit", desc: "Quit crewplan"},
	}
}

func (a *App) logInfo(format string, args ...any) {
	a.journal.Info(format, args...)
}

func (a *App) logError(format string, args ...any) {
	a.journal.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update folds a message into the model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.mainMenu.SetSize(max(0, msg.Width-6), max(0, msg.Height-12))
		return a, nil

	case planReadyMsg:
		if msg.err != nil {
			a.boardErr = msg.err.Error()
			a.statusMsg = "Planning failed"
			a.logError("plan failed: %v", msg.err)
			return a, nil
		}
		a.boardErr = ""
		a.plan = msg.plan
		a.review = msg.review
		a.state = statePlanBoard
		a.statusMsg = msg.review.Title
		a.logInfo("plan: %d of %d tasks placed", placedTasks(msg.plan), msg.plan.Summary.TotalTasks)
		return a, nil

	case timelinesReadyMsg:
		if msg.err != nil {
			a.boardErr = msg.err.Error()
			a.statusMsg = "Projection failed"
			a.logError("timeline projection failed: %v", msg.err)
			return a, nil
		}
		a.boardErr = ""
		a.timelineRows = msg.rows
		a.state = stateTimelineView
		a.statusMsg = fmt.Sprintf("Projected %d task(s)", len(msg.rows))
		return a, nil

	case exportDoneMsg:
		if msg.err != nil {
			a.boardErr = msg.err.Error()
			a.statusMsg = "Export failed"
			a.logError("export failed: %v", msg.err)
			return a, nil
		}
		a.statusMsg = fmt.Sprintf("Exported plan to %s", msg.path)
		a.logInfo("plan exported to %s", msg.path)
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return a, tea.Quit
		case "q":
			if a.state == stateMainMenu {
				return a, tea.Quit
			}
			return a.returnToMainMenu()
		case "esc":
			if a.state != stateMainMenu {
				return a.returnToMainMenu()
			}
		case "r":
			switch a.state {
			case statePlanBoard:
				a.statusMsg = "Re-running planner..."
				return a, a.computePlan()
			case stateTimelineView:
				a.statusMsg = "Re-projecting timelines..."
				return a, a.computeTimelines()
			}
		case "e":
			if a.state == statePlanBoard {
				return a, a.exportPlan()
			}
		case "enter":
			if a.state == stateMainMenu {
				return a.handleMainMenuSelection()
			}
		}
	}

	var cmd tea.Cmd
	if a.state == stateMainMenu {
		a.mainMenu, cmd = a.mainMenu.Update(msg)
	}
	return a, cmd
}

func (a *App) handleMainMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := a.mainMenu.SelectedItem().(menuItem)
	if !ok {
		return a, nil
	}
	switch item.title {
	case "Run Plan":
		a.logInfo("Menu · Run Plan selected")
		a.statusMsg = "Running planner..."
		return a, a.computePlan()
	case "View Timelines":
		a.logInfo("Menu · View Timelines selected")
		a.statusMsg = "Projecting timelines..."
		return a, a.computeTimelines()
	case "Export Plan":
		a.logInfo("Menu · Export Plan selected")
		if a.plan == nil {
			a.statusMsg = "Run a plan before exporting"
			return a, nil
		}
		return a, a.exportPlan()
	case "Exit":
		a.logInfo("Menu · Exit selected")
		return a, tea.Quit
	}
	return a, nil
}

func (a *App) returnToMainMenu() (tea.Model, tea.Cmd) {
	a.state = stateMainMenu
	a.boardErr = ""
	a.statusMsg = ""
	return a, nil
}

// computePlan loads project data and runs the planner off the Update loop.
func (a *App) computePlan() tea.Cmd {
	cfg := a.config
	clock := a.clock
	return func() tea.Msg {
		settings := cfg.PlannerSettings()
		tasks, err := backlog.LoadTasks(cfg.BacklogPath(), settings.HoursPerWeek)
		if err != nil {
			return planReadyMsg{err: fmt.Errorf("load backlog: %w", err)}
		}
		resources, err := backlog.LoadResources(cfg.RosterPath(), settings.HoursPerWeek)
		if err != nil {
			return planReadyMsg{err: fmt.Errorf("load roster: %w", err)}
		}
		rules, err := plugins.LoadScoringRules(cfg)
		if err != nil {
			return planReadyMsg{err: fmt.Errorf("load scoring rules: %w", err)}
		}
		planner, err := schedule.NewPlanner(plannerConfigFor(cfg),
			schedule.WithClock(clock),
			schedule.WithScoringRules(rules))
		if err != nil {
			return planReadyMsg{err: err}
		}
		plan := planner.Plan(schedule.UnassignedBacklog(tasks), resources)
		return planReadyMsg{plan: plan, review: schedule.Review(plan)}
	}
}

func (a *App) computeTimelines() tea.Cmd {
	cfg := a.config
	clock := a.clock
	return func() tea.Msg {
		settings := cfg.PlannerSettings()
		tasks, err := backlog.LoadTasks(cfg.BacklogPath(), settings.HoursPerWeek)
		if err != nil {
			return timelinesReadyMsg{err: fmt.Errorf("load backlog: %w", err)}
		}
		timelines, _ := schedule.Project(tasks, clock())
		titles := make(map[string]string)
		for _, task := range schedule.Flatten(tasks) {
			titles[task.ID] = task.Title
		}
		rows := make([]timelineRow, 0, len(timelines))
		for id, tl := range timelines {
			rows = append(rows, timelineRow{
				ID:      id,
				Title:   titles[id],
				Range:   schedule.FormatDateRange(tl.StartDate, tl.EndDate),
				Partial: !tl.Scheduled && !tl.StartDate.IsZero(),
			})
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
		return timelinesReadyMsg{rows: rows}
	}
}

func (a *App) exportPlan() tea.Cmd {
	cfg := a.config
	plan := a.plan
	review := a.review
	return func() tea.Msg {
		writer := export.NewWriter(cfg.PlansDir())
		path, err := writer.WritePlan(plan, review)
		return exportDoneMsg{path: path, err: err}
	}
}

func plannerConfigFor(cfg *config.Config) schedule.PlannerConfig {
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

func placedTasks(plan *schedule.AssignmentPlan) int {
	return plan.Summary.ImmediateAssignments + plan.Summary.DeferredAssignments
}

// View renders the current state to a string.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.state {
	case stateMainMenu:
		content = a.mainMenu.View()
	case statePlanBoard:
		content = renderPlanBoard(a.plan, a.review, width-6)
	case stateTimelineView:
		content = renderTimelines(a.timelineRows, width-6)
	}
	return a.renderFrame(content, width)
}

func (a *App) renderFrame(content string, width int) string {
	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		MarginBottom(1).
		Render("⬡ CREWPLAN")
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Width(max(20, width-2)).
		Render(content)
	sections := []string{header, box}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	status := a.statusMsg
	if a.boardErr != "" {
		status = "⚠ " + a.boardErr
	}
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(status)
	sections = append(sections, footer)
	return strings.Join(sections, "\n")
}

func (a *App) renderLogPanel() string {
	if a.journal == nil {
		return ""
	}
	lines := a.journal.Tail(6)
	if len(lines) == 0 {
		return ""
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", filepath.Base(a.journal.Path())))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
