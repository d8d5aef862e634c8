package schedule

import "time"

const displayDateLayout = "Jan 2, 2006"

// notScheduled is what callers show for a timeline that never got a
// placement.
const notScheduled = "Not scheduled"

// FormatDate renders a date for human display. The zero time reads as
// "Not scheduled", matching the unplaced-timeline contract.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return notScheduled
	}
	return t.Format(displayDateLayout)
}

// FormatDateRange renders a start/end pair, collapsing same-day ranges
// to a single date.
func FormatDateRange(start, end time.Time) string {
	if start.IsZero() && end.IsZero() {
		return notScheduled
	}
	if start.IsZero() {
		return FormatDate(end)
	}
	if end.IsZero() || sameDay(start, end) {
		return FormatDate(start)
	}
	return FormatDate(start) + " - " + FormatDate(end)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
