// Package retry re-runs flaky test attempts a configured number of times.
package retry

import (
	"fmt"
	"sync"

	"github.com/pomkit/pomkit/pkg/config"
)

// DefaultMaxRetries applies when retry.count is unset or malformed.
const DefaultMaxRetries = 1

// Analyzer decides whether a failed attempt is retried. Each test gets its
// own Analyzer; it allows at most Max retries over its lifetime.
type Analyzer struct {
	mu    sync.Mutex
	max   int
	count int
}

// New returns an Analyzer allowing limit retries. Negative values allow none.
func New(limit int) *Analyzer {
	if limit < 0 {
		limit = 0
	}
	return &Analyzer{max: limit}
}

// FromConfig reads retry.count from src.
func FromConfig(src config.Source) *Analyzer {
	return New(src.GetInt(config.KeyRetryCount, DefaultMaxRetries))
}

// Retry reports whether another attempt is allowed and consumes it.
func (a *Analyzer) Retry() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.count < a.max {
		a.count++
		return true
	}
	return false
}

// Max returns the retry limit.
func (a *Analyzer) Max() int {
	return a.max
}

// Retries returns how many retries were consumed.
func (a *Analyzer) Retries() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.count
}

// Run calls fn until it succeeds or the analyzer refuses another retry.
// attempt starts at 1. The last error is returned.
func (a *Analyzer) Run(fn func(attempt int) error) error {
	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		if !a.Retry() {
			if attempt > 1 {
				return fmt.Errorf("failed after %d attempts: %w", attempt, err)
			}
			return err
		}
	}
}
