package schedule

import (
	"fmt"
	"sort"
)

// PlanReview is the human-facing digest derived from a finished plan.
// It adds no new state; everything here is recomputable from the plan.
type PlanReview struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// nearCapacityThreshold flags resources whose first week is effectively
// spoken for already.
const nearCapacityThreshold = 0.9

// Review summarizes an assignment plan for display. Suggestions fire
// when tasks overflowed, and independently when any resource enters the
// horizon with week one more than 90% utilized.
func Review(plan *AssignmentPlan) PlanReview {
	review := PlanReview{
		Title: fmt.Sprintf("Assignment plan: %d of %d tasks placed", placedCount(plan), plan.Summary.TotalTasks),
		Description: fmt.Sprintf(
			"%d scheduled for this week, %d deferred to later weeks, %d could not be placed within the %d-week horizon.",
			plan.Summary.ImmediateAssignments,
			plan.Summary.DeferredAssignments,
			plan.Summary.OverflowTasks,
			plan.HorizonWeeks,
		),
	}
	if plan.Summary.OverflowTasks > 0 {
		review.Suggestions = append(review.Suggestions,
			"increase weekly capacity or add resources",
			"extend the planning horizon",
			"split oversized tasks so they fit a single week",
		)
	}
	for _, name := range nearCapacityResources(plan) {
		review.Suggestions = append(review.Suggestions,
			fmt.Sprintf("%s is over 90%% booked for week 1; consider rebalancing", name))
	}
	return review
}

func placedCount(plan *AssignmentPlan) int {
	return plan.Summary.ImmediateAssignments + plan.Summary.DeferredAssignments
}

// nearCapacityResources returns display names of resources whose week
// one utilization exceeds the near-capacity threshold, in a stable
// order so repeated reviews of the same plan render identically.
func nearCapacityResources(plan *AssignmentPlan) []string {
	var names []string
	for _, ledger := range orderedSchedules(plan.Schedules) {
		if len(ledger.Weeks) == 0 {
			continue
		}
		if ledger.utilization(1) > nearCapacityThreshold {
			names = append(names, displayName(ledger))
		}
	}
	return names
}

// orderedSchedules flattens the schedule map sorted by resource id.
func orderedSchedules(schedules map[string]*WeeklySchedule) []*WeeklySchedule {
	out := make([]*WeeklySchedule, 0, len(schedules))
	for _, ledger := range schedules {
		out = append(out, ledger)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceID < out[j].ResourceID })
	return out
}

func displayName(ledger *WeeklySchedule) string {
	if ledger.ResourceName != "" {
		return ledger.ResourceName
	}
	return ledger.ResourceID
}
