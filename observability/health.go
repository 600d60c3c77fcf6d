package observability

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// HealthStatusHealthy indicates the component is usable.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded indicates the component works with reduced function.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy indicates the component is unusable.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single environment check
type HealthCheck struct {
	Name  string
	Check func(context.Context) HealthCheckResult
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status  HealthStatus      `json:"status" yaml:"status"`
	Message string            `json:"message,omitempty" yaml:"message,omitempty"`
	Details map[string]string `json:"details,omitempty" yaml:"details,omitempty"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]*HealthCheck
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]*HealthCheck),
	}
}

// Register registers a check, replacing any check with the same name
func (hc *HealthChecker) Register(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name] = &check
}

// Names returns the registered check names in sorted order
func (hc *HealthChecker) Names() []string {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Check executes all health checks concurrently
func (hc *HealthChecker) Check(ctx context.Context) map[string]HealthCheckResult {
	hc.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(c *HealthCheck) {
			defer wg.Done()
			result := c.Check(ctx)
			mu.Lock()
			results[c.Name] = result
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}

// OverallStatus reduces results to the worst status
func OverallStatus(results map[string]HealthCheckResult) HealthStatus {
	overall := HealthStatusHealthy
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			overall = HealthStatusDegraded
		}
	}
	return overall
}

// DirectoryHealthCheck reports whether path is an existing directory.
// A missing optional directory is degraded rather than unhealthy.
func DirectoryHealthCheck(name, path string, optional bool) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) HealthCheckResult {
			details := map[string]string{"path": path}

			info, err := os.Stat(path)
			switch {
			case err != nil:
				status := HealthStatusUnhealthy
				if optional {
					status = HealthStatusDegraded
				}
				return HealthCheckResult{Status: status, Message: err.Error(), Details: details}
			case !info.IsDir():
				return HealthCheckResult{
					Status:  HealthStatusUnhealthy,
					Message: fmt.Sprintf("%s is not a directory", path),
					Details: details,
				}
			}

			return HealthCheckResult{Status: HealthStatusHealthy, Message: "directory exists", Details: details}
		},
	}
}

// ProbeHealthCheck wraps a probe returning a short description of the
// component, or an error when it is unusable.
func ProbeHealthCheck(name string, probe func(context.Context) (string, error)) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) HealthCheckResult {
			msg, err := probe(ctx)
			if err != nil {
				return HealthCheckResult{Status: HealthStatusUnhealthy, Message: err.Error()}
			}
			return HealthCheckResult{Status: HealthStatusHealthy, Message: msg}
		},
	}
}
