// Package backlog loads and saves the task backlog and resource roster
// that feed the scheduling engine. The engine itself never touches
// disk; everything file-shaped lives here.
package backlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// ResourceEntry represents one team member captured in
// .crewplan/team/resources.json. WeeklyCapacity is optional; entries
// without one take the configured hours-per-week default.
type ResourceEntry struct {
	ID             string `json:"id,omitempty"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	WeeklyCapacity int    `json:"weeklyCapacity,omitempty"`
	CommittedHours int    `json:"committedHours,omitempty"`
}

// Normalize ensures essential fields are present and trims whitespace.
func (e ResourceEntry) Normalize(defaultCapacity int) (ResourceEntry, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return ResourceEntry{}, errors.New("resource entry missing name")
	}
	e.Name = name
	e.ID = strings.TrimSpace(e.ID)
	if e.ID == "" {
		e.ID = slugify(name)
	}
	e.Role = strings.TrimSpace(e.Role)
	if e.WeeklyCapacity <= 0 {
		e.WeeklyCapacity = defaultCapacity
	}
	if e.CommittedHours < 0 {
		e.CommittedHours = 0
	}
	return e, nil
}

// LoadResourceEntries reads the roster as raw entries without
// normalization. Validation tooling wants to see the file as written.
func LoadResourceEntries(path string) ([]ResourceEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []ResourceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("backlog: parse resource roster: %w", err)
	}
	return entries, nil
}

// LoadResources reads the roster from disk and returns engine-ready
// resources. Entries that cannot be normalized are skipped rather than
// failing the whole roster.
func LoadResources(path string, defaultCapacity int) ([]schedule.Resource, error) {
	entries, err := LoadResourceEntries(path)
	if err != nil {
		return nil, err
	}
	resources := make([]schedule.Resource, 0, len(entries))
	for _, entry := range entries {
		normalized, err := entry.Normalize(defaultCapacity)
		if err != nil {
			continue
		}
		resources = append(resources, schedule.Resource{
			ID:             normalized.ID,
			Name:           normalized.Name,
			Role:           normalized.Role,
			WeeklyCapacity: normalized.WeeklyCapacity,
			CommittedHours: normalized.CommittedHours,
		})
	}
	return resources, nil
}

// SaveResources writes the roster to disk, preserving directory structure.
func SaveResources(path string, entries []ResourceEntry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// slugify turns a display name into a stable id: lowercase, spaces and
// separators collapsed to single dashes.
func slugify(value string) string {
	lower := strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	lastDash := false
	for _, r := range lower {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastDash = false
			continue
		}
		switch r {
		case ' ', '-', '_', '.':
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
