package handler

import (
	"context"
	"net/http"
	"sort"
	"time"
)

const readinessTimeout = 5 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a plain function to the Pinger interface.
type PingerFunc func(ctx context.Context) error

// Ping calls f.
func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler handles health check requests. Readiness probes every
// registered dependency; a service with no external dependencies is
// always ready.
type HealthHandler struct {
	checks map[string]Pinger
}

// NewHealthHandler creates a new HealthHandler. checks maps a
// dependency name to its probe; nil probes are ignored.
func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// Liveness returns 200 if the service is alive.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readiness returns 200 if every registered dependency answers a ping.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	status := map[string]string{"status": "ready"}

	for _, name := range h.checkNames() {
		if err := h.checks[name].Ping(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, name+" unhealthy", err.Error())
			return
		}
		status[name] = "ok"
	}

	writeJSON(w, http.StatusOK, status)
}

// checkNames returns dependency names in a stable probe order.
func (h *HealthHandler) checkNames() []string {
	names := make([]string, 0, len(h.checks))
	for name, p := range h.checks {
		if p == nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
