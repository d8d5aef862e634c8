package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/mckinlee/crewplan/internal/config"
	"github.com/mckinlee/crewplan/internal/schedule"
)

func TestSettingsFromConfigHonorsEnv(t *testing.T) {
	t.Setenv("CREWPLAN_BRIDGE_PORT", "9001")
	t.Setenv("CREWPLAN_BRIDGE_HOST", "0.0.0.0")
	t.Setenv("CREWPLAN_BRIDGE_ENABLED", "false")
	cfg := &config.Config{}
	settings := SettingsFromConfig(cfg)
	if settings.Port != 9001 {
		t.Fatalf("expected port 9001, got %d", settings.Port)
	}
	if settings.Host != "0.0.0.0" {
		t.Fatalf("expected host override, got %s", settings.Host)
	}
	if settings.Enabled {
		t.Fatalf("expected enabled=false from env override")
	}
}

func TestPlanRequestValidate(t *testing.T) {
	req := PlanRequest{
		Tasks:     []schedule.Task{{ID: "t1", EstimatedHours: 4, Priority: 50}},
		Resources: []schedule.Resource{{ID: "r1", WeeklyCapacity: 40}},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
	req.ReferenceDate = "yesterday"
	if err := req.Validate(); err == nil {
		t.Fatalf("expected reference date error")
	}
	req.ReferenceDate = ""
	req.Resources = nil
	if err := req.Validate(); err == nil {
		t.Fatalf("expected missing resources error")
	}
}

func testServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	settings := Settings{
		Enabled:      true,
		Host:         "127.0.0.1",
		Port:         0,
		MaxBodyBytes: DefaultMaxBodyBytes,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		IdleTimeout:  time.Second,
	}
	srv := NewServer(settings, opts...)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	return srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func TestServerPlansTasks(t *testing.T) {
	t.Parallel()
	srv := testServer(t)
	base := srv.BaseURL()

	resp, err := http.Get(base + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", resp.StatusCode)
	}

	req := PlanRequest{
		Tasks: []schedule.Task{
			{ID: "t1", Title: "Build API", EstimatedHours: 16, Priority: 90, RequiredRole: "developer"},
			{ID: "t2", Title: "Write docs", EstimatedHours: 8, Priority: 40},
		},
		Resources: []schedule.Resource{
			{ID: "r1", Name: "Ana", Role: "developer", WeeklyCapacity: 20},
		},
		ReferenceDate: "2026-08-26",
	}
	resp = postJSON(t, base+"/plan", req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 plan, got %d", resp.StatusCode)
	}
	var out PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode plan response: %v", err)
	}
	if out.Plan == nil {
		t.Fatalf("expected plan in response")
	}
	if got := len(out.Plan.Assignments); got != 2 {
		t.Fatalf("expected 2 assignments, got %d", got)
	}
	if out.Plan.Summary.TotalTasks != 2 {
		t.Fatalf("expected summary over 2 tasks, got %d", out.Plan.Summary.TotalTasks)
	}
	if out.Review.Title == "" {
		t.Fatalf("expected review attached to plan response")
	}
}

func TestServerProjectsTimelines(t *testing.T) {
	t.Parallel()
	srv := testServer(t)
	base := srv.BaseURL()

	owner := &schedule.Resource{ID: "r1", Name: "Ana", WeeklyCapacity: 10}
	req := TimelineRequest{
		Tasks: []schedule.Task{
			{ID: "t1", EstimatedHours: 15, Priority: 70, Status: schedule.StatusPending, AssignedTo: owner},
		},
		ReferenceDate: "2026-08-26",
	}
	resp := postJSON(t, base+"/timelines", req)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 timelines, got %d", resp.StatusCode)
	}
	var out TimelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode timeline response: %v", err)
	}
	tl, ok := out.Timelines["t1"]
	if !ok {
		t.Fatalf("expected timeline for t1, got %v", out.Timelines)
	}
	if !tl.Scheduled {
		t.Fatalf("expected t1 fully scheduled")
	}
	if tl.StartWeek != 1 {
		t.Fatalf("expected start week 1, got %d", tl.StartWeek)
	}
	if _, ok := out.Schedules["r1"]; !ok {
		t.Fatalf("expected ledger for r1")
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	t.Parallel()
	srv := testServer(t)
	base := srv.BaseURL()

	resp, err := http.Get(base + "/plan")
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for GET /plan, got %d", resp.StatusCode)
	}

	resp = postJSON(t, base+"/plan", PlanRequest{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty plan request, got %d", resp.StatusCode)
	}

	resp, err = http.Post(base+"/timelines", "application/json", bytes.NewReader([]byte("{not json")))
	if err != nil {
		t.Fatalf("post garbage: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", resp.StatusCode)
	}
}

func TestServerEnforcesPayloadLimit(t *testing.T) {
	t.Parallel()
	settings := Settings{Enabled: true, Host: "127.0.0.1", Port: 0, MaxBodyBytes: 64, ReadTimeout: time.Second, WriteTimeout: time.Second, IdleTimeout: time.Second}
	srv := NewServer(settings)
	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
	})
	if err := srv.Start(context.Background()); err != nil {
		t.Fatalf("start server: %v", err)
	}
	tooLarge := bytes.Repeat([]byte("a"), 512)
	req := PlanRequest{
		Tasks:     []schedule.Task{{ID: string(tooLarge), EstimatedHours: 4}},
		Resources: []schedule.Resource{{ID: "r1", WeeklyCapacity: 40}},
	}
	resp := postJSON(t, srv.BaseURL()+"/plan", req)
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", resp.StatusCode)
	}
}

func TestServerDisabledRefusesStart(t *testing.T) {
	srv := NewServer(Settings{Enabled: false, Host: "127.0.0.1", Port: 0})
	if err := srv.Start(context.Background()); err == nil {
		t.Fatalf("expected disabled server to refuse start")
	}
}

func TestServerScoringRulesFlowThrough(t *testing.T) {
	t.Parallel()
	srv := testServer(t, WithScoringRules([]schedule.ScoringRule{
		{ID: "favor-design", Role: "designer", Bonus: 100},
	}))
	req := PlanRequest{
		Tasks: []schedule.Task{
			{ID: "t1", EstimatedHours: 8, Priority: 50},
		},
		Resources: []schedule.Resource{
			{ID: "dev", Role: "developer", WeeklyCapacity: 40},
			{ID: "des", Role: "designer", WeeklyCapacity: 40},
		},
		ReferenceDate: "2026-08-26",
	}
	resp := postJSON(t, srv.BaseURL()+"/plan", req)
	defer resp.Body.Close()
	var out PlanResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Plan.Assignments) != 1 {
		t.Fatalf("expected one assignment, got %d", len(out.Plan.Assignments))
	}
	if got := out.Plan.Assignments[0].ResourceID; got != "des" {
		t.Fatalf("expected rule bonus to favor designer, got %s", got)
	}
}
