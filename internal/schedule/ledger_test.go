package schedule

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestWeekOneStartsOnMonday(t *testing.T) {
	// 2026-08-26 is a Wednesday; its week starts Monday the 24th.
	wednesday := date(2026, time.August, 26)
	start := WeekStart(wednesday, 1)
	if !start.Equal(date(2026, time.August, 24)) {
		t.Fatalf("expected Monday Aug 24, got %s", start)
	}
	if start.Weekday() != time.Monday {
		t.Fatalf("week 1 should start on Monday, got %s", start.Weekday())
	}
	end := WeekEnd(wednesday, 1)
	if !end.Equal(date(2026, time.August, 30)) {
		t.Fatalf("expected Sunday Aug 30, got %s", end)
	}
}

func TestWeekOneSundayRollsBackSixDays(t *testing.T) {
	sunday := date(2026, time.August, 30)
	start := WeekStart(sunday, 1)
	if !start.Equal(date(2026, time.August, 24)) {
		t.Fatalf("Sunday should belong to the week starting Aug 24, got %s", start)
	}
}

func TestWeekOneMondayIsItsOwnStart(t *testing.T) {
	monday := date(2026, time.August, 24)
	if start := WeekStart(monday, 1); !start.Equal(monday) {
		t.Fatalf("Monday reference should start its own week, got %s", start)
	}
}

func TestLaterWeeksAdvanceBySevenDays(t *testing.T) {
	ref := date(2026, time.August, 26)
	for n := 1; n <= 4; n++ {
		start := WeekStart(ref, n)
		want := date(2026, time.August, 24).AddDate(0, 0, 7*(n-1))
		if !start.Equal(want) {
			t.Fatalf("week %d: expected %s, got %s", n, want, start)
		}
		if gap := WeekEnd(ref, n).Sub(start); gap != 6*24*time.Hour {
			t.Fatalf("week %d spans %s, want 6 days", n, gap)
		}
	}
}

func TestNewScheduleOpensFullCapacity(t *testing.T) {
	res := Resource{ID: "r1", Name: "Dana", Role: "Developer", WeeklyCapacity: 40}
	ledger := NewSchedule(res, 8, date(2026, time.August, 26))
	if len(ledger.Weeks) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(ledger.Weeks))
	}
	for _, bucket := range ledger.Weeks {
		if bucket.AssignedHours != 0 || bucket.AvailableHours != 40 {
			t.Fatalf("week %d not fresh: assigned=%d available=%d", bucket.Week, bucket.AssignedHours, bucket.AvailableHours)
		}
	}
	if ledger.Weeks[0].Week != 1 || ledger.Weeks[7].Week != 8 {
		t.Fatalf("weeks must be 1-indexed and contiguous")
	}
}

func TestSeedCommittedClampsForProjection(t *testing.T) {
	res := Resource{ID: "r1", WeeklyCapacity: 40}
	ledger := NewSchedule(res, 4, date(2026, time.August, 26))
	ledger.SeedCommitted(45, true)
	first := ledger.Weeks[0]
	if first.AssignedHours != 45 {
		t.Fatalf("assigned hours should record the true commitment, got %d", first.AssignedHours)
	}
	if first.AvailableHours != 0 {
		t.Fatalf("clamped available hours must floor at zero, got %d", first.AvailableHours)
	}
}

func TestSeedCommittedKeepsDeficitForPlanning(t *testing.T) {
	res := Resource{ID: "r1", WeeklyCapacity: 40}
	ledger := NewSchedule(res, 4, date(2026, time.August, 26))
	ledger.SeedCommitted(45, false)
	if got := ledger.Weeks[0].AvailableHours; got != -5 {
		t.Fatalf("planner ledger must keep the deficit, got %d", got)
	}
	if week := firstFittingWeek(ledger, 10); week != 2 {
		t.Fatalf("over-committed week 1 must not accept work, fit reported week %d", week)
	}
}

func TestUtilizationGuardsZeroCapacity(t *testing.T) {
	ledger := NewSchedule(Resource{ID: "r1"}, 2, date(2026, time.August, 26))
	if u := ledger.utilization(1); u != 1 {
		t.Fatalf("zero capacity should read as fully utilized, got %f", u)
	}
}
