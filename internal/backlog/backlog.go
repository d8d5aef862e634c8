package backlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// taskRecord is the tolerant wire shape for backlog files. Different
// exporters disagree on field names for effort, so several aliases are
// accepted and the first positive one wins.
type taskRecord struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Estimate     json.Number    `json:"estimatedHours"`
	EstimateAlt  json.Number    `json:"estimate"`
	Hours        json.Number    `json:"hours"`
	Points       json.Number    `json:"points"`
	Priority     json.Number    `json:"priority"`
	Status       string         `json:"status"`
	RequiredRole string         `json:"requiredRole"`
	RoleAlt      string         `json:"required_role"`
	AssignedTo   *ResourceEntry `json:"assignedTo"`
	ParentID     string         `json:"parent"`
	Subtasks     []taskRecord   `json:"subtasks"`
}

// LoadTasks reads a backlog file and converts it to engine tasks.
// Accepts either a bare JSON array or an {"items": [...]} wrapper.
func LoadTasks(path string, defaultCapacity int) ([]schedule.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	records, err := parseTaskRecords(data)
	if err != nil {
		return nil, fmt.Errorf("backlog: %s: %w", path, err)
	}
	return convertTaskRecords(records, defaultCapacity), nil
}

// SaveTasks writes engine tasks back out as a backlog file.
func SaveTasks(path string, tasks []schedule.Task) error {
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func parseTaskRecords(data []byte) ([]taskRecord, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var arr []taskRecord
	if err := decoder.Decode(&arr); err == nil {
		return arr, nil
	}
	decoder = json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var wrapper struct {
		Items []taskRecord `json:"items"`
	}
	if err := decoder.Decode(&wrapper); err == nil && wrapper.Items != nil {
		return wrapper.Items, nil
	}
	return nil, fmt.Errorf("unexpected backlog format")
}

func convertTaskRecords(records []taskRecord, defaultCapacity int) []schedule.Task {
	tasks := make([]schedule.Task, 0, len(records))
	for _, rec := range records {
		tasks = append(tasks, convertTaskRecord(rec, defaultCapacity))
	}
	return tasks
}

func convertTaskRecord(rec taskRecord, defaultCapacity int) schedule.Task {
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		id = uuid.NewString()
	}
	role := strings.TrimSpace(rec.RequiredRole)
	if role == "" {
		role = strings.TrimSpace(rec.RoleAlt)
	}
	task := schedule.Task{
		ID:             id,
		Title:          strings.TrimSpace(rec.Title),
		EstimatedHours: firstPositiveNumber(rec.Estimate, rec.EstimateAlt, rec.Hours, rec.Points),
		Priority:       numberOrZero(rec.Priority),
		Status:         normalizeStatus(rec.Status),
		RequiredRole:   role,
		ParentID:       strings.TrimSpace(rec.ParentID),
	}
	if rec.AssignedTo != nil {
		if normalized, err := rec.AssignedTo.Normalize(defaultCapacity); err == nil {
			task.AssignedTo = &schedule.Resource{
				ID:             normalized.ID,
				Name:           normalized.Name,
				Role:           normalized.Role,
				WeeklyCapacity: normalized.WeeklyCapacity,
				CommittedHours: normalized.CommittedHours,
			}
		}
	}
	for _, sub := range rec.Subtasks {
		child := convertTaskRecord(sub, defaultCapacity)
		if child.ParentID == "" {
			child.ParentID = task.ID
		}
		task.Subtasks = append(task.Subtasks, child)
	}
	return task
}

// normalizeStatus maps loose status strings onto the engine's
// lifecycle states; anything unrecognized counts as pending so the
// task stays eligible for planning.
func normalizeStatus(status string) schedule.Status {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "in_progress", "in-progress", "active", "started":
		return schedule.StatusInProgress
	case "completed", "complete", "done", "closed":
		return schedule.StatusCompleted
	case "cancelled", "canceled":
		return schedule.StatusCancelled
	default:
		return schedule.StatusPending
	}
}

func firstPositiveNumber(numbers ...json.Number) int {
	for _, num := range numbers {
		if num == "" {
			continue
		}
		if val, err := num.Int64(); err == nil && val > 0 {
			return int(val)
		}
		if val, err := num.Float64(); err == nil && val > 0 {
			return int(val + 0.5)
		}
	}
	return 0
}

func numberOrZero(num json.Number) int {
	if num == "" {
		return 0
	}
	if val, err := num.Int64(); err == nil {
		return int(val)
	}
	if val, err := num.Float64(); err == nil {
		return int(val + 0.5)
	}
	return 0
}
