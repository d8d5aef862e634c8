// internal/config/config.go
//
// This package handles configuration and the .crewplan directory
// structure. Every project that uses crewplan gets a .crewplan/ folder
// created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// CrewplanDir is the name of the directory we create in each project
	CrewplanDir = ".crewplan"

	defaultHorizonWeeks   = 12
	defaultHoursPerWeek   = 40
	defaultUrgentPriority = 80
	defaultBridgePort     = 8173
)

const defaultProjectConfigYAML = `# crewplan project configuration
version: 1

# Planner tunables. The horizon is how many weeks ahead assignment may
# look; urgent_priority is the threshold for the immediate-scheduling
# bonus.
planner:
  horizon_weeks: 12
  hours_per_week: 40
  urgent_priority: 80
  # Extra role synonyms merged into the built-in table, e.g.:
  # role_synonyms:
  #   developer: [sre, platform]

# Local HTTP bridge for headless planning requests.
bridge:
  enabled: false
  host: 127.0.0.1
  port: 8173
`

// PlannerSettings carries the scheduling tunables from config.yaml.
type PlannerSettings struct {
	HorizonWeeks   int                 `yaml:"horizon_weeks"`
	HoursPerWeek   int                 `yaml:"hours_per_week"`
	UrgentPriority int                 `yaml:"urgent_priority"`
	RoleSynonyms   map[string][]string `yaml:"role_synonyms,omitempty"`
}

// BridgeSettings configures the local planning HTTP endpoint.
type BridgeSettings struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// ProjectConfig models .crewplan/config.yaml.
type ProjectConfig struct {
	Version int             `yaml:"version"`
	Planner PlannerSettings `yaml:"planner"`
	Bridge  BridgeSettings  `yaml:"bridge"`
}

// Config holds the runtime configuration for crewplan.
type Config struct {
	// ProjectDir is the directory where the user ran `crewplan` from
	ProjectDir string

	// CrewplanProjectDir is ProjectDir/.crewplan
	CrewplanProjectDir string

	Project ProjectConfig
}

// InitCrewplanDir creates the .crewplan directory structure in the
// given project directory.
//
// Structure created:
// .crewplan/
// ├── logs/    <- Planning activity journal
// ├── team/    <- Resource roster (resources.json)
// ├── plans/   <- Exported plan reports
// └── rules/   <- Scoring-rule plugins (YAML or Go)
func InitCrewplanDir(projectDir string) error {
	crewplanDir := filepath.Join(projectDir, CrewplanDir)
	dirs := []string{
		filepath.Join(crewplanDir, "logs"),
		filepath.Join(crewplanDir, "team"),
		filepath.Join(crewplanDir, "plans"),
		filepath.Join(crewplanDir, "rules"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(crewplanDir, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:         projectDir,
		CrewplanProjectDir: filepath.Join(projectDir, CrewplanDir),
		Project:            defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.CrewplanProjectDir, "logs")
}

// RosterPath returns the path to the resources.json roster file
func (c *Config) RosterPath() string {
	return filepath.Join(c.CrewplanProjectDir, "team", "resources.json")
}

// BacklogPath returns the path to the task backlog file
func (c *Config) BacklogPath() string {
	return filepath.Join(c.CrewplanProjectDir, "backlog.json")
}

// PlansDir returns the directory where exported plan reports land
func (c *Config) PlansDir() string {
	return filepath.Join(c.CrewplanProjectDir, "plans")
}

// RulesDir returns the directory scanned for scoring-rule plugins
func (c *Config) RulesDir() string {
	return filepath.Join(c.CrewplanProjectDir, "rules")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.CrewplanProjectDir, "config.yaml")
}

// PlannerSettings returns the loaded planner tunables.
func (c *Config) PlannerSettings() PlannerSettings {
	return c.Project.Planner
}

// BridgeSettings returns the loaded bridge settings.
func (c *Config) BridgeSettings() BridgeSettings {
	return c.Project.Bridge
}

// SetHorizonWeeks updates the planning horizon and persists the value
// back to .crewplan/config.yaml.
func (c *Config) SetHorizonWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("config: horizon_weeks must be positive, got %d", weeks)
	}
	c.Project.Planner.HorizonWeeks = weeks
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var parsed ProjectConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Planner: PlannerSettings{
			HorizonWeeks:   defaultHorizonWeeks,
			HoursPerWeek:   defaultHoursPerWeek,
			UrgentPriority: defaultUrgentPriority,
		},
		Bridge: BridgeSettings{
			Host: "127.0.0.1",
			Port: defaultBridgePort,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if pc.Planner.HorizonWeeks == 0 {
		pc.Planner.HorizonWeeks = defaultHorizonWeeks
	}
	if pc.Planner.HoursPerWeek == 0 {
		pc.Planner.HoursPerWeek = defaultHoursPerWeek
	}
	if pc.Planner.UrgentPriority == 0 {
		pc.Planner.UrgentPriority = defaultUrgentPriority
	}
	if pc.Bridge.Host == "" {
		pc.Bridge.Host = "127.0.0.1"
	}
	if pc.Bridge.Port == 0 {
		pc.Bridge.Port = defaultBridgePort
	}
}

func (pc *ProjectConfig) normalize() {
	cleaned := make(map[string][]string, len(pc.Planner.RoleSynonyms))
	for role, synonyms := range pc.Planner.RoleSynonyms {
		key := strings.ToLower(strings.TrimSpace(role))
		if key == "" {
			continue
		}
		var list []string
		for _, syn := range synonyms {
			if trimmed := strings.TrimSpace(syn); trimmed != "" {
				list = append(list, trimmed)
			}
		}
		if len(list) > 0 {
			cleaned[key] = list
		}
	}
	if len(cleaned) > 0 {
		pc.Planner.RoleSynonyms = cleaned
	} else {
		pc.Planner.RoleSynonyms = nil
	}
	pc.Bridge.Host = strings.TrimSpace(pc.Bridge.Host)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.Planner.HorizonWeeks < 1 {
		return fmt.Errorf("planner.horizon_weeks must be >= 1")
	}
	if pc.Planner.HoursPerWeek < 1 {
		return fmt.Errorf("planner.hours_per_week must be >= 1")
	}
	if pc.Bridge.Port < 1 || pc.Bridge.Port > 65535 {
		return fmt.Errorf("bridge.port must be a valid TCP port")
	}
	return nil
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.CrewplanProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure crewplan dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
