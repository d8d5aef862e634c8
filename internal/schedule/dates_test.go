package schedule

import (
	"testing"
	"time"
)

func TestFormatDateZeroValue(t *testing.T) {
	if got := FormatDate(time.Time{}); got != "Not scheduled" {
		t.Fatalf("zero time should render as Not scheduled, got %q", got)
	}
}

func TestFormatDateRange(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  string
	}{
		{"both zero", time.Time{}, time.Time{}, "Not scheduled"},
		{"same day collapses", date(2026, time.March, 9), date(2026, time.March, 9), "Mar 9, 2026"},
		{"full range", date(2026, time.March, 9), date(2026, time.March, 15), "Mar 9, 2026 - Mar 15, 2026"},
		{"missing end", date(2026, time.March, 9), time.Time{}, "Mar 9, 2026"},
	}
	for _, tc := range cases {
		if got := FormatDateRange(tc.start, tc.end); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}
