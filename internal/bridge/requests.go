package bridge

import (
	"fmt"
	"strings"
	"time"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// referenceDateLayout is the accepted wire format for reference dates.
const referenceDateLayout = "2006-01-02"

// PlanRequest is the payload accepted by POST /plan.
type PlanRequest struct {
	Tasks         []schedule.Task     `json:"tasks"`
	Resources     []schedule.Resource `json:"resources"`
	ReferenceDate string              `json:"referenceDate,omitempty"`
}

// Validate rejects requests the planner cannot act on.
func (r PlanRequest) Validate() error {
	if len(r.Tasks) == 0 {
		return fmt.Errorf("bridge: plan request has no tasks")
	}
	if len(r.Resources) == 0 {
		return fmt.Errorf("bridge: plan request has no resources")
	}
	if _, err := r.referenceTime(); err != nil {
		return err
	}
	return nil
}

func (r PlanRequest) referenceTime() (time.Time, error) {
	return parseReference(r.ReferenceDate)
}

// PlanResponse is the payload returned by POST /plan.
type PlanResponse struct {
	Plan   *schedule.AssignmentPlan `json:"plan"`
	Review schedule.PlanReview      `json:"review"`
}

// TimelineRequest is the payload accepted by POST /timelines.
type TimelineRequest struct {
	Tasks         []schedule.Task `json:"tasks"`
	ReferenceDate string          `json:"referenceDate,omitempty"`
}

// Validate rejects requests the projector cannot act on.
func (r TimelineRequest) Validate() error {
	if len(r.Tasks) == 0 {
		return fmt.Errorf("bridge: timeline request has no tasks")
	}
	if _, err := r.referenceTime(); err != nil {
		return err
	}
	return nil
}

func (r TimelineRequest) referenceTime() (time.Time, error) {
	return parseReference(r.ReferenceDate)
}

// TimelineResponse is the payload returned by POST /timelines.
type TimelineResponse struct {
	Timelines map[string]schedule.Timeline        `json:"timelines"`
	Schedules map[string]*schedule.WeeklySchedule `json:"schedules"`
}

func parseReference(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	ref, err := time.Parse(referenceDateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("bridge: reference date %q: want YYYY-MM-DD", raw)
	}
	return ref, nil
}

// Logger is the minimal logging surface the server depends on.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
