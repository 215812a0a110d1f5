package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
)

// StartupStatus tracks initialization progress and backs /healthz
type StartupStatus struct {
	mu       sync.RWMutex
	ready    bool
	current  string
	progress int
	steps    []StartupStep
}

type StartupStep struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// NewStartupStatus creates a tracker for the named steps
func NewStartupStatus(stepNames ...string) *StartupStatus {
	steps := make([]StartupStep, len(stepNames))
	for i, name := range stepNames {
		steps[i] = StartupStep{Name: name}
	}
	return &StartupStatus{current: "Initializing...", steps: steps}
}

// CompleteStep marks a step as completed and updates progress
func (s *StartupStatus) CompleteStep(stepName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed := 0
	for i := range s.steps {
		if s.steps[i].Name == stepName {
			s.steps[i].Completed = true
		}
		if s.steps[i].Completed {
			completed++
		}
	}
	s.current = stepName
	if len(s.steps) > 0 {
		s.progress = (completed * 100) / len(s.steps)
	}
}

// MarkReady marks the server as fully initialized
func (s *StartupStatus) MarkReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	s.current = "Server ready"
	s.progress = 100
}

// IsReady returns whether the server is fully initialized
func (s *StartupStatus) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// ServeHTTP reports readiness as JSON: 200 once ready, 503 before
func (s *StartupStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	body := struct {
		Ready    bool          `json:"ready"`
		Current  string        `json:"current"`
		Progress int           `json:"progress"`
		Steps    []StartupStep `json:"steps"`
	}{s.ready, s.current, s.progress, append([]StartupStep(nil), s.steps...)}
	s.mu.RUnlock()

	status := http.StatusOK
	if !body.Ready {
		status = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error writing health status: %v", err)
	}
}
