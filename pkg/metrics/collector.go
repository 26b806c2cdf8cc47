package metrics

import (
	"errors"
	"sync"

	"github.com/dbehnke/iq-verify/pkg/harness"
)

// Collector collects harness run metrics. It implements harness.Observer
// and never influences the run's outcome.
type Collector struct {
	mu sync.RWMutex

	// Case metrics
	casesRun    uint64
	casesPassed uint64
	casesFailed uint64

	// Verification metrics
	mismatchedWords uint64
}

// NewCollector creates a new metrics collector
func NewCollector() *Collector {
	return &Collector{}
}

// CaseStarted records the start of a test case
func (c *Collector) CaseStarted(tc harness.TestCase) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.casesRun++
}

// CaseFinished records a test case outcome
func (c *Collector) CaseFinished(tc harness.TestCase, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err == nil {
		c.casesPassed++
		return
	}

	c.casesFailed++

	var mErr *harness.MismatchError
	if errors.As(err, &mErr) {
		c.mismatchedWords += uint64(len(mErr.Result.Mismatches))
	}
}

// GetCasesRun returns the number of cases started
func (c *Collector) GetCasesRun() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.casesRun
}

// GetCasesPassed returns the number of cases that completed cleanly
func (c *Collector) GetCasesPassed() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.casesPassed
}

// GetCasesFailed returns the number of cases that failed
func (c *Collector) GetCasesFailed() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.casesFailed
}

// GetMismatchedWords returns the total mismatched samples recorded by
// failed verifications
func (c *Collector) GetMismatchedWords() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mismatchedWords
}
