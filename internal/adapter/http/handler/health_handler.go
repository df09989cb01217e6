package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const readinessTimeout = 3 * time.Second

// Check is a named dependency probe used by readiness.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// HealthHandler serves liveness and readiness.
type HealthHandler struct {
	checks []Check
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checks ...Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness returns 200 while the process is up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness probes every dependency concurrently and reports each result.
// Any failing probe makes the instance unready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	var (
		mu     sync.Mutex
		status = map[string]string{}
		ready  = true
	)
	var g errgroup.Group
	for _, check := range h.checks {
		g.Go(func() error {
			err := check.Ping(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				ready = false
				status[check.Name] = err.Error()
				return nil
			}
			status[check.Name] = "ok"
			return nil
		})
	}
	_ = g.Wait()

	if !ready {
		status["status"] = "unready"
		writeJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	status["status"] = "ready"
	writeJSON(w, http.StatusOK, status)
}
