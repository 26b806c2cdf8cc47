package harness

import (
	"errors"
	"testing"

	"github.com/dbehnke/iq-verify/pkg/dump"
	"github.com/dbehnke/iq-verify/pkg/interleave"
	"github.com/dbehnke/iq-verify/pkg/logger"
	"github.com/dbehnke/iq-verify/pkg/pattern"
	"github.com/dbehnke/iq-verify/pkg/sdr"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error"})
}

func newTestOrchestrator(gw interleave.Gateway) *Orchestrator {
	log := testLogger()
	return NewOrchestrator(gw, pattern.NewPool(), dump.New(dump.Config{}, log), log)
}

// stubGateway lets tests inject transform failures and corruption.
type stubGateway struct {
	interleaveErr   error
	deinterleaveErr error
	corruptData     bool // flip a data byte during interleave
	corruptMeta     bool // flip a metadata byte during interleave
	interleaves     int
	deinterleaves   int
}

func (s *stubGateway) Interleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error {
	s.interleaves++
	if s.corruptData {
		buf[sdr.MetadataBytes(format)] ^= 0xff
	}
	if s.corruptMeta {
		buf[0] ^= 0xff
	}
	return s.interleaveErr
}

func (s *stubGateway) Deinterleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error {
	s.deinterleaves++
	return s.deinterleaveErr
}

func TestOrchestrator_DefaultBatteryPasses(t *testing.T) {
	orc := newTestOrchestrator(interleave.New())

	for _, tc := range DefaultBattery(16384) {
		t.Run(tc.String(), func(t *testing.T) {
			if err := orc.Run(tc); err != nil {
				t.Errorf("case failed: %v", err)
			}
		})
	}
}

func TestOrchestrator_ConcreteScatterScenario(t *testing.T) {
	// 16384 samples of SC16Q11 across two channels: 65536 bytes, no
	// metadata. After interleaving, channel 0 reads at stride 2 from
	// offset 0 starting at count 0; channel 1 reads at stride 2 from
	// offset 4 starting at count 65536/2/2 = 16384.
	buf := make([]byte, 65536)
	pattern.Fill(buf)

	tr := interleave.New()
	if err := tr.Interleave(sdr.LayoutTX2, sdr.FormatSC16Q11, 16384, buf); err != nil {
		t.Fatalf("Interleave returned error: %v", err)
	}

	v := pattern.NewVerifier(testLogger())
	if res := v.Verify(buf, 4, 2, 0); !res.OK {
		t.Errorf("channel 0 strided scan failed with %d mismatches", len(res.Mismatches))
	}
	if res := v.Verify(buf[4:], 4, 2, 16384); !res.OK {
		t.Errorf("channel 1 strided scan failed with %d mismatches", len(res.Mismatches))
	}
}

func TestOrchestrator_LayoutMismatchFailsBeforeGenerate(t *testing.T) {
	gw := &stubGateway{}
	orc := newTestOrchestrator(gw)

	err := orc.Run(TestCase{
		RXLayout:   sdr.LayoutRX1,
		TXLayout:   sdr.LayoutTX2,
		Format:     sdr.FormatSC16Q11,
		NumSamples: 64,
	})
	if !errors.Is(err, ErrLayoutMismatch) {
		t.Fatalf("expected ErrLayoutMismatch, got %v", err)
	}
	if gw.interleaves != 0 || gw.deinterleaves != 0 {
		t.Error("gateway must not be invoked for an invalid case")
	}
}

func TestOrchestrator_SizeInvariantViolation(t *testing.T) {
	gw := &stubGateway{}
	orc := newTestOrchestrator(gw)

	// 2 samples of SC16Q11Meta: 8 total bytes, below the 16 byte prefix
	err := orc.Run(TestCase{
		RXLayout:   sdr.LayoutRX2,
		TXLayout:   sdr.LayoutTX2,
		Format:     sdr.FormatSC16Q11Meta,
		NumSamples: 2,
	})
	if !errors.Is(err, ErrSizeInvariant) {
		t.Fatalf("expected ErrSizeInvariant, got %v", err)
	}
	if gw.interleaves != 0 {
		t.Error("gateway must not be invoked when validation fails")
	}
}

func TestOrchestrator_RejectsNarrowSampleFormats(t *testing.T) {
	orc := newTestOrchestrator(&stubGateway{})

	err := orc.Run(TestCase{
		RXLayout:   sdr.LayoutRX2,
		TXLayout:   sdr.LayoutTX2,
		Format:     sdr.FormatSC8Q7,
		NumSamples: 64,
	})
	if !errors.Is(err, ErrSizeInvariant) {
		t.Fatalf("expected ErrSizeInvariant for 2-byte samples, got %v", err)
	}
}

func TestOrchestrator_TransformFailure(t *testing.T) {
	t.Run("interleave", func(t *testing.T) {
		gw := &stubGateway{interleaveErr: errors.New("status -7")}
		orc := newTestOrchestrator(gw)

		err := orc.Run(TestCase{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11, 64})
		if !errors.Is(err, ErrTransform) {
			t.Fatalf("expected ErrTransform, got %v", err)
		}
		if gw.deinterleaves != 0 {
			t.Error("deinterleave must not run after a failed interleave")
		}
	})

	t.Run("deinterleave", func(t *testing.T) {
		gw := &stubGateway{deinterleaveErr: errors.New("status -7")}
		orc := newTestOrchestrator(gw)

		err := orc.Run(TestCase{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11, 64})
		if !errors.Is(err, ErrTransform) {
			t.Fatalf("expected ErrTransform, got %v", err)
		}
	})
}

func TestOrchestrator_DetectsCorruptedData(t *testing.T) {
	gw := &stubGateway{corruptData: true}
	orc := newTestOrchestrator(gw)

	err := orc.Run(TestCase{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11, 64})
	if !errors.Is(err, ErrVerification) {
		t.Fatalf("expected ErrVerification, got %v", err)
	}

	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MismatchError, got %T", err)
	}
	if mErr.Region != "single-channel buffer" {
		t.Errorf("unexpected region %q", mErr.Region)
	}
	if len(mErr.Result.Mismatches) != 1 {
		t.Fatalf("expected 1 recorded mismatch, got %d", len(mErr.Result.Mismatches))
	}
	if mErr.Result.Mismatches[0].Offset != 0 {
		t.Errorf("mismatch offset %d, want 0", mErr.Result.Mismatches[0].Offset)
	}
}

func TestOrchestrator_DetectsCorruptedMetadata(t *testing.T) {
	gw := &stubGateway{corruptMeta: true}
	orc := newTestOrchestrator(gw)

	err := orc.Run(TestCase{sdr.LayoutRX1, sdr.LayoutTX1, sdr.FormatSC16Q11Meta, 64})

	var mErr *MismatchError
	if !errors.As(err, &mErr) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if mErr.Region != "metadata prefix" {
		t.Errorf("unexpected region %q", mErr.Region)
	}
}

// recordingObserver captures case lifecycle events.
type recordingObserver struct {
	started  []TestCase
	finished []TestCase
	errs     []error
}

func (r *recordingObserver) CaseStarted(tc TestCase) {
	r.started = append(r.started, tc)
}

func (r *recordingObserver) CaseFinished(tc TestCase, err error) {
	r.finished = append(r.finished, tc)
	r.errs = append(r.errs, err)
}

func TestRunner_AllPass(t *testing.T) {
	log := testLogger()
	orc := NewOrchestrator(interleave.New(), pattern.NewPool(), dump.New(dump.Config{}, log), log)
	runner := NewRunner(orc, log)

	obs := &recordingObserver{}
	runner.AddObserver(obs)

	cases := DefaultBattery(256)
	if err := runner.Run(cases); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(obs.started) != len(cases) || len(obs.finished) != len(cases) {
		t.Errorf("observer saw %d/%d events, want %d/%d",
			len(obs.started), len(obs.finished), len(cases), len(cases))
	}
	for i, err := range obs.errs {
		if err != nil {
			t.Errorf("case %d reported error to observer: %v", i, err)
		}
	}
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	log := testLogger()
	gw := &stubGateway{interleaveErr: errors.New("status -1")}
	orc := NewOrchestrator(gw, pattern.NewPool(), dump.New(dump.Config{}, log), log)
	runner := NewRunner(orc, log)

	obs := &recordingObserver{}
	runner.AddObserver(obs)

	cases := DefaultBattery(64)
	err := runner.Run(cases)
	if !errors.Is(err, ErrTransform) {
		t.Fatalf("expected ErrTransform, got %v", err)
	}
	if gw.interleaves != 1 {
		t.Errorf("expected the run to stop after the first case, interleave called %d times", gw.interleaves)
	}
	if len(obs.finished) != 1 {
		t.Errorf("observer saw %d finished cases, want 1", len(obs.finished))
	}
	if obs.errs[0] == nil {
		t.Error("observer should have seen the failure")
	}
}
