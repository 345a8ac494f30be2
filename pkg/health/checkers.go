package health

import (
	"context"
	"time"
)

// Checkable is satisfied by storage adapters that can report connectivity.
type Checkable interface {
	HealthCheck(ctx context.Context) error
}

// AdapterChecker verifies a storage adapter with a bounded timeout.
type AdapterChecker struct {
	name    string
	adapter Checkable
	timeout time.Duration
}

// NewAdapterChecker wraps an adapter in a named checker. A zero timeout
// defaults to five seconds.
func NewAdapterChecker(name string, adapter Checkable, timeout time.Duration) *AdapterChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &AdapterChecker{name: name, adapter: adapter, timeout: timeout}
}

func (c *AdapterChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Timestamp: start,
	}
	if err := c.adapter.HealthCheck(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.Duration = time.Since(start)
	return result
}

func (c *AdapterChecker) Name() string {
	return c.name
}

// CustomChecker adapts a plain function into a Checker.
type CustomChecker struct {
	name  string
	check func(ctx context.Context) error
}

// NewCustomChecker creates a checker from a function. A nil error from the
// function means healthy.
func NewCustomChecker(name string, check func(ctx context.Context) error) *CustomChecker {
	return &CustomChecker{name: name, check: check}
}

func (c *CustomChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Timestamp: start,
	}
	if err := c.check(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}
	result.Duration = time.Since(start)
	return result
}

func (c *CustomChecker) Name() string {
	return c.name
}
