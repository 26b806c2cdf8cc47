package harness

import (
	"fmt"

	"github.com/dbehnke/iq-verify/pkg/dump"
	"github.com/dbehnke/iq-verify/pkg/interleave"
	"github.com/dbehnke/iq-verify/pkg/logger"
	"github.com/dbehnke/iq-verify/pkg/pattern"
	"github.com/dbehnke/iq-verify/pkg/sdr"
)

// Orchestrator runs one test case end to end: validate, generate the
// reference pattern, interleave, verify the scattered layout, deinterleave,
// verify restoration. The buffer is released on every exit path.
type Orchestrator struct {
	gateway  interleave.Gateway
	pool     *pattern.Pool
	verifier *pattern.Verifier
	dumper   *dump.Dumper
	log      *logger.Logger
}

// NewOrchestrator creates an orchestrator around the given transform
// gateway.
func NewOrchestrator(gw interleave.Gateway, pool *pattern.Pool, d *dump.Dumper, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		gateway:  gw,
		pool:     pool,
		verifier: pattern.NewVerifier(log.WithComponent("verify")),
		dumper:   d,
		log:      log,
	}
}

// Run executes tc. A nil return means the full sequence completed with
// every verification clean; the first failing step aborts the rest.
func (o *Orchestrator) Run(tc TestCase) error {
	sampSize := sdr.BytesPerSample(tc.Format)
	meta := sdr.MetadataBytes(tc.Format)
	numChan := sdr.ChannelCount(tc.RXLayout)
	total := sampSize * tc.NumSamples

	// Validate
	if txChan := sdr.ChannelCount(tc.TXLayout); numChan != txChan {
		return fmt.Errorf("%w: rx=%d tx=%d", ErrLayoutMismatch, numChan, txChan)
	}
	if numChan < 1 {
		return fmt.Errorf("%w: channel count %d", ErrLayoutMismatch, numChan)
	}
	if total < meta {
		return fmt.Errorf("%w: %d bytes cannot be less than the %d byte metadata prefix",
			ErrSizeInvariant, total, meta)
	}
	if sampSize != 4 {
		return fmt.Errorf("%w: verifier scans 4-byte samples, format %v has %d",
			ErrSizeInvariant, tc.Format, sampSize)
	}

	o.log.Info("beginning test case",
		logger.String("rx", tc.RXLayout.String()),
		logger.String("tx", tc.TXLayout.String()),
		logger.String("format", tc.Format.String()),
		logger.Int("num_samples", tc.NumSamples))

	// Generate
	buf, err := pattern.Generate(o.pool, total)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocation, err)
	}
	defer buf.Release()

	o.dumper.Grid("pattern", buf.Bytes())

	// Forward transform
	if err := o.gateway.Interleave(tc.TXLayout, tc.Format, tc.NumSamples, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: interleave: %v", ErrTransform, err)
	}

	o.dumper.Grid("interleaved", buf.Bytes())
	o.dumper.Excerpt("interleaved", buf.Bytes())

	// The metadata prefix must come through the transform untouched.
	if meta > 0 {
		o.log.Info("checking metadata prefix", logger.Int("bytes", meta))
		if res := o.verifier.Verify(buf.Bytes()[:meta], sampSize, 1, 0); !res.OK {
			return &MismatchError{Region: "metadata prefix", Result: res}
		}
	}

	// A single channel means interleaving must have been a no-op.
	if numChan == 1 {
		o.log.Info("single channel, verifying no interleaving occurred")
		if res := o.verifier.Verify(buf.Bytes(), sampSize, 1, 0); !res.OK {
			return &MismatchError{Region: "single-channel buffer", Result: res}
		}
	}

	// Each channel's samples sit every numChan'th slot, carrying the
	// counts of the contiguous 1/numChan share it owned before
	// interleaving.
	dataBytes := total - meta
	for ch := 0; ch < numChan; ch++ {
		region := buf.Bytes()[meta+ch*sampSize:]
		start := uint16((meta + ch*(dataBytes/numChan)) / 2)

		o.log.Info("checking interleaved channel",
			logger.Int("channel", ch),
			logger.Int("stride", numChan),
			logger.Hex16("start", start))

		if res := o.verifier.Verify(region, sampSize, numChan, start); !res.OK {
			return &MismatchError{Region: fmt.Sprintf("channel %d", ch), Result: res}
		}
	}

	// Inverse transform
	if err := o.gateway.Deinterleave(tc.RXLayout, tc.Format, tc.NumSamples, buf.Bytes()); err != nil {
		return fmt.Errorf("%w: deinterleave: %v", ErrTransform, err)
	}

	o.dumper.Grid("deinterleaved", buf.Bytes())

	o.log.Info("checking deinterleaved buffer")
	if res := o.verifier.Verify(buf.Bytes(), sampSize, 1, 0); !res.OK {
		return &MismatchError{Region: "restored buffer", Result: res}
	}

	o.log.Info("test case passed")
	return nil
}
