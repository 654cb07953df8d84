package monitor

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/runlab/lifeline/pkg/health"
	"github.com/runlab/lifeline/pkg/lifecycle"
	"github.com/runlab/lifeline/pkg/log"
)

var allStates = []lifecycle.State{
	lifecycle.StateNew,
	lifecycle.StateStarting,
	lifecycle.StateRunning,
	lifecycle.StateStopping,
	lifecycle.StateTerminated,
	lifecycle.StateFailed,
}

type checkReport struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type healthReport struct {
	Status string        `json:"status"`
	Checks []checkReport `json:"checks"`
}

type statusReport struct {
	State         string           `json:"state"`
	Epochs        map[string]int64 `json:"epochs"`
	UptimeSeconds int64            `json:"uptime_seconds"`
	Checks        int              `json:"checks"`
}

// newServer builds the HTTP server for the status endpoints.
func (m *Monitor) newServer() *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", m.handleHealthz)
	mux.HandleFunc("/statusz", m.handleStatusz)

	return &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// healthReport polls every check and aggregates the worst result. Warnings
// keep the daemon healthy; any critical or unknown result does not.
// Disabled checks are reported but excluded from aggregation.
func (m *Monitor) healthReport() healthReport {
	agg := health.StatusOK
	var results []checkReport

	for _, c := range m.snapshot() {
		status, detail := c.Poll()
		r := checkReport{Name: c.Name(), Status: status.String()}

		if errors.Is(detail, health.ErrDisabled) {
			r.Status = "disabled"
			results = append(results, r)
			continue
		}
		if detail != nil {
			r.Detail = detail.Error()
		}
		results = append(results, r)

		switch status {
		case health.StatusWarning:
			if agg == health.StatusOK {
				agg = health.StatusWarning
			}
		case health.StatusCritical, health.StatusUnknown:
			agg = health.StatusCritical
		}
	}

	return healthReport{Status: agg.String(), Checks: results}
}

func (m *Monitor) statusReport() statusReport {
	epochs := make(map[string]int64, len(allStates))
	for _, s := range allStates {
		epochs[s.String()] = m.lc.Epoch(s)
	}

	return statusReport{
		State:         m.lc.State().String(),
		Epochs:        epochs,
		UptimeSeconds: time.Now().Unix() - m.lc.Epoch(lifecycle.StateNew),
		Checks:        len(m.snapshot()),
	}
}

func (m *Monitor) handleHealthz(w http.ResponseWriter, r *http.Request) {
	report := m.healthReport()

	code := http.StatusOK
	if report.Status == health.StatusCritical.String() {
		code = http.StatusServiceUnavailable
	}
	m.writeJSON(w, code, report)
}

func (m *Monitor) handleStatusz(w http.ResponseWriter, r *http.Request) {
	m.writeJSON(w, http.StatusOK, m.statusReport())
}

func (m *Monitor) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		m.logger.Error("encode response", log.Err(err))
	}
}

// RunOnce polls every configured check once, writes the aggregated report as
// indented JSON, and returns an error when the aggregate is critical.
func (m *Monitor) RunOnce(w io.Writer) error {
	report := m.healthReport()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return err
	}

	if report.Status == health.StatusCritical.String() {
		return fmt.Errorf("health: aggregate status is %s", report.Status)
	}
	return nil
}
