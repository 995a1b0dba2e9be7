package api

import (
	"context"
	"net/http"
	"time"
)

// healthCheckTimeout bounds the combined component checks for one
// /health request.
const healthCheckTimeout = 5 * time.Second

// Status describes the health of a component or of the whole service.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// HealthChecker probes one infrastructure component.
//
// Check returns the component status and an optional human-readable
// message (typically the underlying error).
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) (Status, string)
}

// ComponentHealth is one component's entry in the health response.
type ComponentHealth struct {
	Name    string `json:"name"`
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the aggregate health document served on /health.
type HealthResponse struct {
	Status     Status            `json:"status"`
	Version    string            `json:"version"`
	Components []ComponentHealth `json:"components"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewChecker wraps a HealthCheck-style function as a named HealthChecker.
//
// failStatus selects how a failing check weighs on the aggregate:
// StatusDegraded for components the service survives without (the
// inverter powered down overnight, the MQTT feed), StatusUnhealthy
// for ones it cannot (storage).
func NewChecker(name string, failStatus Status, check func(ctx context.Context) error) HealthChecker {
	return &checker{name: name, failStatus: failStatus, check: check}
}

type checker struct {
	name       string
	failStatus Status
	check      func(ctx context.Context) error
}

func (c *checker) Name() string { return c.name }

func (c *checker) Check(ctx context.Context) (Status, string) {
	if err := c.check(ctx); err != nil {
		return c.failStatus, err.Error()
	}
	return StatusHealthy, ""
}

// handleHealth runs every registered component check and reports the
// aggregate. Any unhealthy component makes the aggregate unhealthy
// (503); otherwise any degraded component makes it degraded (200).
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:     StatusHealthy,
		Version:    s.version,
		Components: make([]ComponentHealth, 0, len(s.checkers)),
		Timestamp:  time.Now().UTC(),
	}

	for _, chk := range s.checkers {
		status, message := chk.Check(ctx)
		response.Components = append(response.Components, ComponentHealth{
			Name:    chk.Name(),
			Status:  status,
			Message: message,
		})

		if status == StatusUnhealthy {
			response.Status = StatusUnhealthy
		} else if status == StatusDegraded && response.Status == StatusHealthy {
			response.Status = StatusDegraded
		}
	}

	code := http.StatusOK
	if response.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	writeJSON(w, code, response)
}
