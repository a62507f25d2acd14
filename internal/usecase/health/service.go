package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the index is down but queries are served from the store.
	Degraded Status = "degraded"
	// Unhealthy indicates the relational store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckDisabled marks a component that is not configured.
	CheckDisabled CheckResult = "disabled"
)

const checkTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db    Pinger
	index Pinger
}

// New creates a Service. index can be nil when the search index is disabled.
func New(db, index Pinger) *Service {
	return &Service{db: db, index: index}
}

// Check pings the relational store and the search index. The store is required;
// losing the index only degrades the service since every query can fall back.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{
		"database": ping(ctx, s.db),
		"index":    CheckDisabled,
	}
	if s.index != nil {
		checks["index"] = ping(ctx, s.index)
	}

	status := Healthy
	switch {
	case checks["database"] == CheckError:
		status = Unhealthy
	case checks["index"] == CheckError:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}

func ping(ctx context.Context, p Pinger) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
