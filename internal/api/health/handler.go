package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// Check pings one dependency
type Check func(ctx context.Context) error

// Handler serves liveness, readiness and a detailed health report over the
// registered dependencies. Register and Describe are for setup only.
type Handler struct {
	log         *logger.Logger
	checks      map[string]Check
	info        map[string]string
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a handler with no dependencies. With nothing registered it is always ready.
func New(serviceName, version string) *Handler {
	return &Handler{
		log:         logger.Get().With("component", "health"),
		checks:      make(map[string]Check),
		info:        make(map[string]string),
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// Register adds a dependency check
func (h *Handler) Register(name string, check Check) {
	h.checks[name] = check
}

// Describe attaches static information, such as the analysis backend, to every report
func (h *Handler) Describe(key, value string) {
	h.info[key] = value
}

// HealthStatus is the JSON report
type HealthStatus struct {
	Status    string                     `json:"status"`
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Started   string                     `json:"started"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Info      map[string]string          `json:"info,omitempty"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth is the result of one check
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 while the process is running
func (h *Handler) HandleLiveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HandleReadiness returns 503 when any dependency is down
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	report, healthy := h.report(ctx)

	code := http.StatusOK
	if healthy < len(report.Checks) {
		report.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
		h.log.Warnw("Readiness check failed", "checks", report.Checks)
	}

	writeJSON(w, code, report)
}

// HandleHealth reports every check. Partial failure is "degraded" and still 200.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	report, healthy := h.report(ctx)

	code := http.StatusOK
	switch total := len(report.Checks); {
	case total > 0 && healthy == 0:
		report.Status = statusUnhealthy
		code = http.StatusServiceUnavailable
	case healthy < total:
		report.Status = statusDegraded
	}

	writeJSON(w, code, report)
}

// report probes all dependencies concurrently and counts the healthy ones
func (h *Handler) report(ctx context.Context) (HealthStatus, int) {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		healthy int
		checks  = make(map[string]ComponentHealth, len(h.checks))
	)

	for name, check := range h.checks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := h.probe(ctx, name, check)

			mu.Lock()
			defer mu.Unlock()
			checks[name] = result
			if result.Status == statusHealthy {
				healthy++
			}
		}()
	}
	wg.Wait()

	now := time.Now()
	return HealthStatus{
		Status:    statusHealthy,
		Service:   h.serviceName,
		Version:   h.version,
		Started:   humanize.RelTime(h.startTime, now, "ago", "from now"),
		Uptime:    now.Sub(h.startTime).Round(time.Second).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
		Info:      h.info,
		Checks:    checks,
	}, healthy
}

func (h *Handler) probe(ctx context.Context, name string, check Check) ComponentHealth {
	start := time.Now()
	err := check(ctx)
	elapsed := time.Since(start)

	if err != nil {
		h.log.Errorw("Health check failed", "dependency", name, "elapsed", elapsed, "error", err)
		return ComponentHealth{Status: statusUnhealthy, ResponseTime: elapsed.String(), Error: err.Error()}
	}
	return ComponentHealth{Status: statusHealthy, ResponseTime: elapsed.String()}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
