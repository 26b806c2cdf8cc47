// Package harness drives the interleave transform through a fixed battery
// of round-trip test cases and verifies the buffer layout at each step.
package harness

import (
	"errors"
	"fmt"

	"github.com/dbehnke/iq-verify/pkg/pattern"
	"github.com/dbehnke/iq-verify/pkg/sdr"
)

// Failure kinds. Every failure is local to one test case; the orchestrator
// wraps these with case context.
var (
	// ErrLayoutMismatch indicates the receive and transmit layouts
	// disagree on channel count, or the count is below 1.
	ErrLayoutMismatch = errors.New("incompatible channel layouts")
	// ErrSizeInvariant indicates the buffer cannot satisfy a size
	// invariant (total bytes below the metadata prefix, or a sample
	// width the verifier cannot scan).
	ErrSizeInvariant = errors.New("size invariant violated")
	// ErrAllocation indicates the reference buffer could not be acquired.
	ErrAllocation = errors.New("buffer allocation failed")
	// ErrTransform indicates the interleaver reported a failure status.
	ErrTransform = errors.New("transform failed")
	// ErrVerification indicates buffer contents differed from the
	// expected pattern.
	ErrVerification = errors.New("pattern verification failed")
)

// TestCase is one (receive layout, transmit layout, format, sample count)
// tuple. Immutable once constructed; drives exactly one orchestration run.
type TestCase struct {
	RXLayout   sdr.ChannelLayout
	TXLayout   sdr.ChannelLayout
	Format     sdr.SampleFormat
	NumSamples int
}

func (tc TestCase) String() string {
	return fmt.Sprintf("%v/%v %v n=%d", tc.RXLayout, tc.TXLayout, tc.Format, tc.NumSamples)
}

// MismatchError reports a failed verification region along with every
// mismatch collected during the scan.
type MismatchError struct {
	Region string
	Result pattern.Result
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %d of %d checked samples mismatched",
		e.Region, len(e.Result.Mismatches), e.Result.Checked)
}

func (e *MismatchError) Unwrap() error {
	return ErrVerification
}

// DefaultBattery returns the standard case list: single-channel layouts
// (where interleaving must be a no-op) and two-channel layouts, each with
// and without a metadata prefix.
func DefaultBattery(numSamples int) []TestCase {
	return []TestCase{
		{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11, numSamples},
		{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11Meta, numSamples},
		{sdr.LayoutRX2, sdr.LayoutTX2, sdr.FormatSC16Q11, numSamples},
		{sdr.LayoutRX2, sdr.LayoutTX2, sdr.FormatSC16Q11Meta, numSamples},
	}
}
