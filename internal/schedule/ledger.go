package schedule

import "time"

// Placement records hours of one task landing in one week bucket.
type Placement struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	Hours  int    `json:"hours"`
}

// WeekBucket is one resource's capacity ledger for a single week of the
// horizon. Weeks are 1-indexed and contiguous.
type WeekBucket struct {
	Week           int         `json:"week"`
	StartDate      time.Time   `json:"startDate"`
	EndDate        time.Time   `json:"endDate"`
	AssignedHours  int         `json:"assignedHours"`
	AvailableHours int         `json:"availableHours"`
	Placements     []Placement `json:"placements"`
}

// WeeklySchedule is a resource's rolling ledger over the full horizon.
type WeeklySchedule struct {
	ResourceID     string       `json:"resourceId"`
	ResourceName   string       `json:"resourceName"`
	Role           string       `json:"role,omitempty"`
	WeeklyCapacity int          `json:"weeklyCapacity"`
	Weeks          []WeekBucket `json:"weeks"`
}

// weekOneStart returns the Monday of the calendar week containing ref,
// at midnight in ref's location. Sundays roll back six days; every
// other weekday rolls back to the Monday of the same week.
func weekOneStart(ref time.Time) time.Time {
	offset := 1 - int(ref.Weekday())
	if ref.Weekday() == time.Sunday {
		offset = -6
	}
	monday := ref.AddDate(0, 0, offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, ref.Location())
}

// WeekStart returns the start date of week n (1-indexed) relative to
// the reference date. Both algorithms share this math so their reported
// dates always agree.
func WeekStart(ref time.Time, n int) time.Time {
	return weekOneStart(ref).AddDate(0, 0, 7*(n-1))
}

// WeekEnd returns the Sunday closing week n.
func WeekEnd(ref time.Time, n int) time.Time {
	return WeekStart(ref, n).AddDate(0, 0, 6)
}

// NewSchedule builds a fresh ledger for a resource: horizon buckets,
// nothing assigned, every week open at full weekly capacity. Committed
// hours are not applied here; the projector and planner seed week one
// with different clamping rules.
func NewSchedule(res Resource, horizon int, ref time.Time) *WeeklySchedule {
	weeks := make([]WeekBucket, 0, horizon)
	for n := 1; n <= horizon; n++ {
		weeks = append(weeks, WeekBucket{
			Week:           n,
			StartDate:      WeekStart(ref, n),
			EndDate:        WeekEnd(ref, n),
			AvailableHours: res.WeeklyCapacity,
		})
	}
	return &WeeklySchedule{
		ResourceID:     res.ID,
		ResourceName:   res.Name,
		Role:           res.Role,
		WeeklyCapacity: res.WeeklyCapacity,
		Weeks:          weeks,
	}
}

// SeedCommitted loads pre-existing hours into week one. With clamp set,
// available hours floor at zero (the projector's view); without it the
// bucket keeps the true deficit so an over-committed week stays closed
// to further placement.
func (s *WeeklySchedule) SeedCommitted(hours int, clamp bool) {
	if s == nil || len(s.Weeks) == 0 || hours <= 0 {
		return
	}
	first := &s.Weeks[0]
	first.AssignedHours = hours
	first.AvailableHours = s.WeeklyCapacity - hours
	if clamp && first.AvailableHours < 0 {
		first.AvailableHours = 0
	}
}

// place books hours of a task into bucket n (1-indexed).
func (s *WeeklySchedule) place(n int, task Task, hours int) {
	bucket := &s.Weeks[n-1]
	bucket.AssignedHours += hours
	bucket.AvailableHours -= hours
	bucket.Placements = append(bucket.Placements, Placement{
		TaskID: task.ID,
		Title:  task.Title,
		Hours:  hours,
	})
}

// utilization reports how full bucket n already is, before any
// candidate placement. Zero-capacity resources read as fully utilized
// rather than dividing by zero.
func (s *WeeklySchedule) utilization(n int) float64 {
	if s.WeeklyCapacity <= 0 {
		return 1
	}
	return float64(s.Weeks[n-1].AssignedHours) / float64(s.WeeklyCapacity)
}
