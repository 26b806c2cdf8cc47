package harness

import (
	"fmt"

	"github.com/dbehnke/iq-verify/pkg/logger"
)

// Observer receives case lifecycle notifications. Implementations observe
// only; they must not influence the run's outcome.
type Observer interface {
	CaseStarted(tc TestCase)
	CaseFinished(tc TestCase, err error)
}

// Runner executes an ordered battery of test cases, stopping at the first
// case that does not complete its full sequence.
type Runner struct {
	orc       *Orchestrator
	log       *logger.Logger
	observers []Observer
}

// NewRunner creates a runner over orc.
func NewRunner(orc *Orchestrator, log *logger.Logger) *Runner {
	return &Runner{orc: orc, log: log}
}

// AddObserver registers an observer for case lifecycle events.
func (r *Runner) AddObserver(obs Observer) {
	r.observers = append(r.observers, obs)
}

// Run executes cases in order and returns the first failure, or nil when
// every case passes.
func (r *Runner) Run(cases []TestCase) error {
	for i, tc := range cases {
		r.log.Info("running case",
			logger.Int("index", i),
			logger.String("case", tc.String()))

		for _, obs := range r.observers {
			obs.CaseStarted(tc)
		}

		err := r.orc.Run(tc)

		for _, obs := range r.observers {
			obs.CaseFinished(tc, err)
		}

		if err != nil {
			r.log.Error("case failed",
				logger.String("case", tc.String()),
				logger.Error(err))
			return fmt.Errorf("case %s: %w", tc, err)
		}
	}

	r.log.Info("all cases passed", logger.Int("count", len(cases)))
	return nil
}
