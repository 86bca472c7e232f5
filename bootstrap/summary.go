package bootstrap

import (
	"fmt"
	"strings"
	"time"

	"github.com/kbukum/jobreturn/logger"
)

// ReturnerStatus is the startup state of one registered returner.
type ReturnerStatus struct {
	Name      string
	Available bool
	Reason    string
}

// Summary records what the agent started with.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	returners       []ReturnerStatus
	telemetry       []string
}

// NewSummary creates an empty summary.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// AddReturner records a returner and the outcome of its capability check.
func (s *Summary) AddReturner(name string, err error) {
	st := ReturnerStatus{Name: name, Available: err == nil}
	if err != nil {
		st.Reason = err.Error()
	}
	s.returners = append(s.returners, st)
}

// AddTelemetry records an enabled exporter, e.g. "tracing -> localhost:4318".
func (s *Summary) AddTelemetry(desc string) {
	s.telemetry = append(s.telemetry, desc)
}

// SetStartupDuration records how long startup took.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Returners returns the recorded returner states in registration order.
func (s *Summary) Returners() []ReturnerStatus {
	return s.returners
}

// String renders the summary as a short multi-line report.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s started in %s\n", s.serviceName, s.version, s.startupDuration.Round(time.Millisecond))
	for _, r := range s.returners {
		if r.Available {
			fmt.Fprintf(&b, "  returner %-8s available\n", r.Name)
			continue
		}
		fmt.Fprintf(&b, "  returner %-8s unavailable: %s\n", r.Name, r.Reason)
	}
	for _, t := range s.telemetry {
		fmt.Fprintf(&b, "  telemetry %s\n", t)
	}
	return b.String()
}

// Log writes the summary as one info entry per line.
func (s *Summary) Log(log *logger.Logger) {
	for _, r := range s.returners {
		fields := logger.Fields(logger.FieldReturner, r.Name, "available", r.Available)
		if !r.Available {
			fields["reason"] = r.Reason
		}
		log.Info("returner registered", fields)
	}
	log.Info("agent started", logger.Fields(
		"service", s.serviceName,
		"version", s.version,
		logger.FieldDuration, s.startupDuration.Milliseconds(),
	))
}
