package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mckinlee/crewplan/internal/schedule"
)

// ProtocolVersion identifies the wire contract served by this process.
const ProtocolVersion = 1

// ServerStatus reports runtime lifecycle states for the HTTP server.
type ServerStatus string

const (
	StatusStarting ServerStatus = "starting"
	StatusReady    ServerStatus = "ready"
	StatusDraining ServerStatus = "draining"
)

var errServerDisabled = errors.New("bridge: server disabled")

// Server wraps the HTTP listener and handlers backing the planning endpoint.
type Server struct {
	settings   Settings
	plannerCfg schedule.PlannerConfig
	rules      []schedule.ScoringRule
	logger     Logger
	clock      func() time.Time

	mu        sync.RWMutex
	server    *http.Server
	listener  net.Listener
	status    ServerStatus
	startTime time.Time
}

// Option customizes server construction.
type Option func(*Server)

// WithPlannerConfig overrides the default planner settings.
func WithPlannerConfig(cfg schedule.PlannerConfig) Option {
	return func(s *Server) {
		s.plannerCfg = cfg
	}
}

// WithScoringRules appends scoring rules applied to every planning request.
func WithScoringRules(rules []schedule.ScoringRule) Option {
	return func(s *Server) {
		s.rules = append(s.rules, rules...)
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Server) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewServer prepares a planning server using the provided settings.
func NewServer(settings Settings, opts ...Option) *Server {
	s := &Server{
		settings:   settings,
		plannerCfg: schedule.DefaultPlannerConfig(),
		logger:     nopLogger{},
		clock:      func() time.Time { return time.Now().UTC() },
		status:     StatusStarting,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start binds the TCP listener and begins serving HTTP traffic.
func (s *Server) Start(ctx context.Context) error {
	if s == nil {
		return fmt.Errorf("bridge: server is nil")
	}
	if !s.settings.Enabled {
		return errServerDisabled
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return fmt.Errorf("bridge: server already started")
	}
	addr := s.settings.Address()
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bridge: listen %s: %w", addr, err)
	}
	s.listener = listener
	s.startTime = s.clock()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/plan", s.handlePlan)
	mux.HandleFunc("/timelines", s.handleTimelines)
	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  s.settings.ReadTimeout,
		WriteTimeout: s.settings.WriteTimeout,
		IdleTimeout:  s.settings.IdleTimeout,
	}
	if ctx != nil {
		server.BaseContext = func(net.Listener) context.Context { return ctx }
	}
	s.server = server
	s.status = StatusReady
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Printf("bridge: serve error: %v", err)
		}
	}()
	s.logger.Printf("bridge: listening on %s", listener.Addr().String())
	return nil
}

// Shutdown stops accepting new connections and waits for in-flight requests to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil || s.server == nil {
		return nil
	}
	s.status = StatusDraining
	deadline := ctx
	if deadline == nil {
		var cancel context.CancelFunc
		deadline, cancel = context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
	}
	if err := s.server.Shutdown(deadline); err != nil {
		return err
	}
	s.listener = nil
	s.server = nil
	return nil
}

// Addr returns the bound TCP address once the server has started.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// BaseURL returns the HTTP base URL (scheme + host:port) for the running server.
func (s *Server) BaseURL() string {
	addr := s.Addr()
	if addr == "" {
		return s.settings.URL()
	}
	return "http://" + addr
}

// Status reports the server's lifecycle state.
func (s *Server) Status() ServerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *Server) now() time.Time {
	if s.clock == nil {
		return time.Now().UTC()
	}
	return s.clock().UTC()
}

func (s *Server) uptimeSeconds() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.startTime.IsZero() {
		return 0
	}
	return int64(time.Since(s.startTime).Seconds())
}

type healthResponse struct {
	Status        string `json:"status"`
	Version       int    `json:"version"`
	UptimeSeconds int64  `json:"uptime_seconds"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", fmt.Sprintf("%s, %s", http.MethodGet, http.MethodHead))
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	resp := healthResponse{
		Status:        string(s.Status()),
		Version:       ProtocolVersion,
		UptimeSeconds: s.uptimeSeconds(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ref, _ := req.referenceTime()
	planner, err := s.newPlanner(ref)
	if err != nil {
		s.logger.Printf("bridge: planner setup: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "planner unavailable"})
		return
	}
	plan := planner.Plan(req.Tasks, req.Resources)
	resp := PlanResponse{Plan: plan, Review: schedule.Review(plan)}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTimelines(w http.ResponseWriter, r *http.Request) {
	var req TimelineRequest
	if !s.decodeRequest(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	ref, _ := req.referenceTime()
	if ref.IsZero() {
		ref = s.now()
	}
	timelines, schedules := schedule.Project(req.Tasks, ref)
	writeJSON(w, http.StatusOK, TimelineResponse{Timelines: timelines, Schedules: schedules})
}

func (s *Server) newPlanner(ref time.Time) (*schedule.Planner, error) {
	opts := []schedule.PlannerOption{schedule.WithScoringRules(s.rules)}
	if ref.IsZero() {
		opts = append(opts, schedule.WithClock(s.now))
	} else {
		opts = append(opts, schedule.WithClock(func() time.Time { return ref }))
	}
	return schedule.NewPlanner(s.plannerCfg, opts...)
}

// decodeRequest enforces the POST method and body limit, then decodes into dst.
func (s *Server) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return false
	}
	if r.Body == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty body"})
		return false
	}
	reader := http.MaxBytesReader(w, r.Body, s.settings.MaxBodyBytes)
	defer reader.Close()
	body, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "payload too large"})
			return false
		}
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unable to read body"})
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON payload"})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
