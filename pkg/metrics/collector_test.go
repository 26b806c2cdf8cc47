package metrics

import (
	"testing"

	"github.com/dbehnke/iq-verify/pkg/harness"
	"github.com/dbehnke/iq-verify/pkg/pattern"
	"github.com/dbehnke/iq-verify/pkg/sdr"
)

func sampleCase() harness.TestCase {
	return harness.TestCase{
		RXLayout:   sdr.LayoutRX2,
		TXLayout:   sdr.LayoutTX2,
		Format:     sdr.FormatSC16Q11,
		NumSamples: 1024,
	}
}

func TestCollector_CountsOutcomes(t *testing.T) {
	c := NewCollector()
	tc := sampleCase()

	c.CaseStarted(tc)
	c.CaseFinished(tc, nil)

	c.CaseStarted(tc)
	c.CaseFinished(tc, harness.ErrTransform)

	if got := c.GetCasesRun(); got != 2 {
		t.Errorf("cases run = %d, want 2", got)
	}
	if got := c.GetCasesPassed(); got != 1 {
		t.Errorf("cases passed = %d, want 1", got)
	}
	if got := c.GetCasesFailed(); got != 1 {
		t.Errorf("cases failed = %d, want 1", got)
	}
}

func TestCollector_RecordsMismatchCounts(t *testing.T) {
	c := NewCollector()
	tc := sampleCase()

	err := &harness.MismatchError{
		Region: "channel 1",
		Result: pattern.Result{
			Mismatches: []pattern.Mismatch{
				{Offset: 4, Expected: 1, Actual: 2},
				{Offset: 12, Expected: 3, Actual: 4},
			},
			Checked: 512,
		},
	}

	c.CaseStarted(tc)
	c.CaseFinished(tc, err)

	if got := c.GetMismatchedWords(); got != 2 {
		t.Errorf("mismatched words = %d, want 2", got)
	}
}
