package schedule

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// PlannerConfig carries the planner's tunables. Horizon length and the
// urgency threshold vary between deployments, so they are configuration
// rather than constants.
type PlannerConfig struct {
	// HorizonWeeks is how many weeks ahead the planner may place work.
	HorizonWeeks int
	// HoursPerWeek is the capacity loaders fall back to for resources
	// that omit their own. The engine itself never substitutes it: a
	// zero-capacity resource simply cannot take work.
	HoursPerWeek int
	// UrgentPriority is the threshold at or above which a week-one
	// placement earns the immediate-scheduling score bonus.
	UrgentPriority int
	// RoleSynonyms overrides the compatibility table. Nil means
	// DefaultRoleSynonyms.
	RoleSynonyms map[string][]string
}

// DefaultPlannerConfig mirrors the stock deployment: twelve-week
// horizon, forty-hour weeks, priority 80 counts as urgent.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		HorizonWeeks:   12,
		HoursPerWeek:   40,
		UrgentPriority: 80,
		RoleSynonyms:   DefaultRoleSynonyms(),
	}
}

// ScoringRule is an operator-supplied adjustment layered onto the
// built-in scoring function. Rules come from the plugins directory and
// never alter feasibility, only preference between feasible candidates.
type ScoringRule struct {
	ID string
	// Role limits the rule to resources with this role label
	// (case-insensitive). Empty applies to every resource.
	Role string
	// Bonus is added to the candidate score for matching resources.
	Bonus float64
	// Synonyms are merged into the role-compatibility table.
	Synonyms map[string][]string
}

// PlannerOption customizes Planner construction.
type PlannerOption func(*Planner)

// WithClock lets tests pin the reference date.
func WithClock(clock func() time.Time) PlannerOption {
	return func(p *Planner) {
		if clock != nil {
			p.clock = clock
		}
	}
}

// WithScoringRules installs plugin scoring rules.
func WithScoringRules(rules []ScoringRule) PlannerOption {
	return func(p *Planner) {
		p.rules = append(p.rules, rules...)
	}
}

// Planner assigns unassigned tasks to resources under capacity and role
// constraints. It holds no state between Plan calls; every call builds
// fresh ledgers and returns a new plan.
type Planner struct {
	cfg      PlannerConfig
	synonyms map[string][]string
	rules    []ScoringRule
	clock    func() time.Time
}

// NewPlanner validates the configuration and prepares a planner.
func NewPlanner(cfg PlannerConfig, opts ...PlannerOption) (*Planner, error) {
	if cfg.HorizonWeeks <= 0 {
		return nil, fmt.Errorf("schedule: planner horizon must be positive, got %d", cfg.HorizonWeeks)
	}
	if cfg.RoleSynonyms == nil {
		cfg.RoleSynonyms = DefaultRoleSynonyms()
	}
	p := &Planner{
		cfg:      cfg,
		synonyms: cfg.RoleSynonyms,
		clock:    func() time.Time { return time.Now() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	for _, rule := range p.rules {
		p.synonyms = mergeSynonyms(p.synonyms, rule.Synonyms)
	}
	return p, nil
}

// Assignment is one planner decision: which task goes to which resource
// in which week, with a human-readable justification.
type Assignment struct {
	TaskID        string `json:"taskId"`
	ResourceID    string `json:"resourceId"`
	Week          int    `json:"week"`
	Justification string `json:"justification"`
	// Overflow is retained for older consumers of the plan shape. It is
	// always false: a task that cannot be placed is never emitted as an
	// assignment at all.
	Overflow bool `json:"overflow"`
}

// UnplacedTask records a task the planner could not place anywhere,
// with the per-resource rejection reasons gathered while trying.
type UnplacedTask struct {
	TaskID  string   `json:"taskId"`
	Reasons []string `json:"reasons"`
}

// PlanSummary holds the running counters tracked during planning.
// Immediate + Deferred + Overflow always equals TotalTasks.
type PlanSummary struct {
	TotalTasks           int `json:"totalTasks"`
	ImmediateAssignments int `json:"immediateAssignments"`
	DeferredAssignments  int `json:"deferredAssignments"`
	OverflowTasks        int `json:"overflowTasks"`
}

// AssignmentPlan is the planner's full output, ready for a caller to
// review, serialize, or apply.
type AssignmentPlan struct {
	Assignments   []Assignment               `json:"assignments"`
	Schedules     map[string]*WeeklySchedule `json:"schedules"`
	Unplaced      []UnplacedTask             `json:"unplaced,omitempty"`
	Summary       PlanSummary                `json:"summary"`
	HorizonWeeks  int                        `json:"horizonWeeks"`
	ReferenceDate time.Time                  `json:"referenceDate"`
}

// candidate is the best (task, resource, week) option seen so far.
type candidate struct {
	resource Resource
	ledger   *WeeklySchedule
	week     int
	score    float64
}

// Plan evaluates every unassigned task against every resource and
// produces an assignment plan. Tasks are processed in descending
// priority order; each task takes the highest-scoring (resource, week)
// option that can hold all of its hours in a single week. Nothing is
// mutated besides the freshly built plan.
func (p *Planner) Plan(tasks []Task, resources []Resource) *AssignmentPlan {
	ref := p.clock()
	plan := &AssignmentPlan{
		Schedules:     make(map[string]*WeeklySchedule, len(resources)),
		HorizonWeeks:  p.cfg.HorizonWeeks,
		ReferenceDate: ref,
	}
	ledgers := make([]*WeeklySchedule, 0, len(resources))
	for _, res := range resources {
		ledger := NewSchedule(res, p.cfg.HorizonWeeks, ref)
		ledger.SeedCommitted(res.CommittedHours, false)
		ledgers = append(ledgers, ledger)
		plan.Schedules[res.ID] = ledger
	}

	ordered := append([]Task(nil), tasks...)
	sort.SliceStable(ordered, byPriority(ordered))
	plan.Summary.TotalTasks = len(ordered)

	for _, task := range ordered {
		if task.EstimatedHours <= 0 {
			plan.markUnplaced(task, []string{"no usable effort estimate"})
			continue
		}
		best, reasons := p.pickCandidate(task, resources, ledgers)
		if best == nil {
			plan.markUnplaced(task, reasons)
			continue
		}
		p.commit(plan, task, best)
	}
	return plan
}

// pickCandidate scans every resource for the first week the whole task
// fits and keeps the highest-scoring option. Strictly-greater
// comparison means ties keep the earliest candidate in resource order.
func (p *Planner) pickCandidate(task Task, resources []Resource, ledgers []*WeeklySchedule) (*candidate, []string) {
	var best *candidate
	var reasons []string
	for i, res := range resources {
		if !RoleCompatible(task.RequiredRole, res.Role, p.synonyms) {
			reasons = append(reasons, fmt.Sprintf("%s: role %q does not cover %q", res.Name, res.Role, task.RequiredRole))
			continue
		}
		ledger := ledgers[i]
		week := firstFittingWeek(ledger, task.EstimatedHours)
		if week == 0 {
			reasons = append(reasons, fmt.Sprintf("%s: no week with %dh free within the horizon", res.Name, task.EstimatedHours))
			continue
		}
		score := p.score(task, res, ledger, week)
		if best == nil || score > best.score {
			best = &candidate{resource: res, ledger: ledger, week: week, score: score}
		}
	}
	return best, reasons
}

// firstFittingWeek returns the earliest week able to hold all of the
// requested hours, or zero when no week in the horizon can. Unlike the
// projector the planner never splits a task across weeks.
func firstFittingWeek(ledger *WeeklySchedule, hours int) int {
	for _, bucket := range ledger.Weeks {
		if bucket.AvailableHours >= hours {
			return bucket.Week
		}
	}
	return 0
}

// score rewards high priority, earlier weeks, and under-utilized
// resources, with an extra bonus for urgent work landing in week one.
// Utilization is measured before the candidate placement.
func (p *Planner) score(task Task, res Resource, ledger *WeeklySchedule, week int) float64 {
	score := float64(task.Priority)
	score += float64(p.cfg.HorizonWeeks-week) * 10
	score += (1 - ledger.utilization(week)) * 20
	if task.Priority >= p.cfg.UrgentPriority && week == 1 {
		score += 50
	}
	for _, rule := range p.rules {
		if rule.Role == "" || strings.EqualFold(rule.Role, res.Role) {
			score += rule.Bonus
		}
	}
	return score
}

// commit books the chosen candidate into its ledger and the plan.
func (p *Planner) commit(plan *AssignmentPlan, task Task, best *candidate) {
	best.ledger.place(best.week, task, task.EstimatedHours)
	plan.Assignments = append(plan.Assignments, Assignment{
		TaskID:        task.ID,
		ResourceID:    best.resource.ID,
		Week:          best.week,
		Justification: p.justify(task, best),
	})
	if best.week == 1 {
		plan.Summary.ImmediateAssignments++
	} else {
		plan.Summary.DeferredAssignments++
	}
}

// justify renders the human-readable reason for an assignment. The text
// carries no control-flow weight; it exists for plan review.
func (p *Planner) justify(task Task, best *candidate) string {
	switch {
	case best.week == 1 && task.Priority >= p.cfg.UrgentPriority:
		return fmt.Sprintf("high priority (%d), scheduled immediately with %s", task.Priority, best.resource.Name)
	case best.week == 1:
		return fmt.Sprintf("%s has capacity available this week", best.resource.Name)
	default:
		return fmt.Sprintf("scheduled with %s based on capacity and priority, week %d", best.resource.Name, best.week)
	}
}

func (plan *AssignmentPlan) markUnplaced(task Task, reasons []string) {
	plan.Summary.OverflowTasks++
	plan.Unplaced = append(plan.Unplaced, UnplacedTask{TaskID: task.ID, Reasons: reasons})
}
