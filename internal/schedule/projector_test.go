package schedule

import (
	"reflect"
	"testing"
	"time"
)

// refWednesday keeps projector dates deterministic: week 1 runs Monday
// Aug 24 through Sunday Aug 30, 2026.
var refWednesday = date(2026, time.August, 26)

func devResource() *Resource {
	return &Resource{ID: "r1", Name: "Dana", Role: "Developer", WeeklyCapacity: 40}
}

func TestProjectSplitsAcrossWeeks(t *testing.T) {
	tasks := []Task{
		{ID: "t1", Title: "Big build", EstimatedHours: 60, Priority: 50, Status: StatusPending, AssignedTo: devResource()},
	}
	timelines, ledgers := Project(tasks, refWednesday)
	tl := timelines["t1"]
	if !tl.Scheduled {
		t.Fatalf("60h against 40h/week over 12 weeks must fully schedule")
	}
	if tl.StartWeek != 1 {
		t.Fatalf("expected start week 1, got %d", tl.StartWeek)
	}
	if !tl.StartDate.Equal(date(2026, time.August, 24)) {
		t.Fatalf("start date should be Monday of week 1, got %s", tl.StartDate)
	}
	if !tl.EndDate.Equal(date(2026, time.September, 6)) {
		t.Fatalf("end date should be Sunday of week 2, got %s", tl.EndDate)
	}
	ledger := ledgers["r1"]
	if ledger.Weeks[0].AssignedHours != 40 || ledger.Weeks[1].AssignedHours != 20 {
		t.Fatalf("expected 40/20 split, got %d/%d", ledger.Weeks[0].AssignedHours, ledger.Weeks[1].AssignedHours)
	}
}

func TestProjectHonorsPriorityOrder(t *testing.T) {
	res := devResource()
	tasks := []Task{
		{ID: "low", EstimatedHours: 30, Priority: 10, Status: StatusPending, AssignedTo: res},
		{ID: "high", EstimatedHours: 30, Priority: 90, Status: StatusPending, AssignedTo: res},
	}
	timelines, _ := Project(tasks, refWednesday)
	if timelines["high"].StartWeek != 1 {
		t.Fatalf("high priority task should start week 1, got %d", timelines["high"].StartWeek)
	}
	// The low priority task gets the leftover 10h of week 1 and spills
	// into week 2; splitting is allowed in projection.
	low := timelines["low"]
	if low.StartWeek != 1 || !low.Scheduled {
		t.Fatalf("low priority task should start week 1 and finish: %+v", low)
	}
	if !low.EndDate.Equal(date(2026, time.September, 6)) {
		t.Fatalf("low priority task should run into week 2, got end %s", low.EndDate)
	}
}

func TestProjectFiltersIneligibleTasks(t *testing.T) {
	res := devResource()
	tasks := []Task{
		{ID: "done", EstimatedHours: 10, Priority: 90, Status: StatusCompleted, AssignedTo: res},
		{ID: "unestimated", EstimatedHours: 0, Priority: 90, Status: StatusPending, AssignedTo: res},
		{ID: "unassigned", EstimatedHours: 10, Priority: 90, Status: StatusPending},
	}
	timelines, _ := Project(tasks, refWednesday)
	for _, id := range []string{"done", "unestimated", "unassigned"} {
		tl := timelines[id]
		if tl.Scheduled || !tl.StartDate.IsZero() || !tl.EndDate.IsZero() || tl.StartWeek != 0 {
			t.Fatalf("%s should be reported unscheduled with zero dates: %+v", id, tl)
		}
		if tl.BlockedBy == nil || tl.Blocks == nil {
			t.Fatalf("%s: dependency slices stay non-nil and empty", id)
		}
	}
}

func TestProjectFlattensSubtaskTree(t *testing.T) {
	res := devResource()
	tasks := []Task{
		{
			ID: "parent", EstimatedHours: 10, Priority: 50, Status: StatusPending, AssignedTo: res,
			Subtasks: []Task{
				{ID: "child", EstimatedHours: 10, Priority: 50, Status: StatusPending, AssignedTo: res,
					Subtasks: []Task{
						{ID: "grandchild", EstimatedHours: 10, Priority: 50, Status: StatusPending, AssignedTo: res},
					}},
			},
		},
	}
	timelines, ledgers := Project(tasks, refWednesday)
	for _, id := range []string{"parent", "child", "grandchild"} {
		if !timelines[id].Scheduled {
			t.Fatalf("%s should be scheduled", id)
		}
	}
	if got := ledgers["r1"].Weeks[0].AssignedHours; got != 30 {
		t.Fatalf("all three placements land in week 1, got %dh", got)
	}
}

func TestProjectDeduplicatesResourcesFirstWins(t *testing.T) {
	tasks := []Task{
		{ID: "a", EstimatedHours: 10, Priority: 50, Status: StatusPending,
			AssignedTo: &Resource{ID: "r1", Name: "Dana", WeeklyCapacity: 40}},
		{ID: "b", EstimatedHours: 10, Priority: 40, Status: StatusPending,
			AssignedTo: &Resource{ID: "r1", Name: "Duplicate", WeeklyCapacity: 99}},
	}
	_, ledgers := Project(tasks, refWednesday)
	if len(ledgers) != 1 {
		t.Fatalf("expected one deduplicated ledger, got %d", len(ledgers))
	}
	ledger := ledgers["r1"]
	if ledger.ResourceName != "Dana" || ledger.WeeklyCapacity != 40 {
		t.Fatalf("first occurrence must win: %+v", ledger)
	}
}

func TestProjectPartialPlacementKeepsDates(t *testing.T) {
	res := &Resource{ID: "r1", Name: "Dana", WeeklyCapacity: 10}
	tasks := []Task{
		// 12 weeks x 10h = 120h of horizon; 200h cannot finish.
		{ID: "huge", EstimatedHours: 200, Priority: 50, Status: StatusPending, AssignedTo: res},
	}
	timelines, _ := Project(tasks, refWednesday)
	tl := timelines["huge"]
	if tl.Scheduled {
		t.Fatalf("task larger than the horizon must report Scheduled=false")
	}
	if tl.StartDate.IsZero() || tl.EndDate.IsZero() {
		t.Fatalf("partial placement keeps real dates: %+v", tl)
	}
	if !tl.EndDate.Equal(WeekEnd(refWednesday, ProjectionHorizon)) {
		t.Fatalf("partial placement runs to the end of the horizon, got %s", tl.EndDate)
	}
}

func TestProjectCommittedHoursCloseWeekOne(t *testing.T) {
	res := &Resource{ID: "r1", Name: "Dana", WeeklyCapacity: 40, CommittedHours: 45}
	tasks := []Task{
		{ID: "t1", EstimatedHours: 10, Priority: 50, Status: StatusPending, AssignedTo: res},
	}
	timelines, ledgers := Project(tasks, refWednesday)
	if got := ledgers["r1"].Weeks[0].AvailableHours; got != 0 {
		t.Fatalf("projector week 1 availability must clamp at zero, got %d", got)
	}
	if timelines["t1"].StartWeek != 2 {
		t.Fatalf("work should start week 2, got %d", timelines["t1"].StartWeek)
	}
}

func TestProjectIsIdempotent(t *testing.T) {
	tasks := []Task{
		{ID: "t1", EstimatedHours: 25, Priority: 70, Status: StatusPending, AssignedTo: devResource()},
		{ID: "t2", EstimatedHours: 25, Priority: 30, Status: StatusPending, AssignedTo: devResource()},
	}
	firstTimelines, firstLedgers := Project(tasks, refWednesday)
	secondTimelines, secondLedgers := Project(tasks, refWednesday)
	if !reflect.DeepEqual(firstTimelines, secondTimelines) {
		t.Fatalf("timelines differ between identical runs")
	}
	if !reflect.DeepEqual(firstLedgers, secondLedgers) {
		t.Fatalf("ledgers differ between identical runs")
	}
}

func TestProjectNeverOvercommitsABucket(t *testing.T) {
	res := devResource()
	var tasks []Task
	for i := 0; i < 9; i++ {
		tasks = append(tasks, Task{ID: string(rune('a' + i)), EstimatedHours: 17, Priority: 50 - i, Status: StatusPending, AssignedTo: res})
	}
	_, ledgers := Project(tasks, refWednesday)
	for _, bucket := range ledgers["r1"].Weeks {
		if bucket.AssignedHours > 40 {
			t.Fatalf("week %d overcommitted: %dh against 40h capacity", bucket.Week, bucket.AssignedHours)
		}
	}
}
