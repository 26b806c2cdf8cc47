package pattern

import (
	"encoding/binary"

	"github.com/dbehnke/iq-verify/pkg/logger"
)

// Mismatch records one sample whose packed word differed from the
// expected counting sequence.
type Mismatch struct {
	Offset   int    // byte offset of the sample within the scanned region
	Expected uint32 // packed expected word (low count | next count << 16)
	Actual   uint32 // word actually read
}

// Result is the outcome of one verification scan.
type Result struct {
	OK         bool
	Mismatches []Mismatch
	Checked    int // number of samples compared
}

// Verifier scans buffer regions against the counting pattern.
type Verifier struct {
	log *logger.Logger
}

// NewVerifier creates a verifier that reports each mismatch through log.
func NewVerifier(log *logger.Logger) *Verifier {
	return &Verifier{log: log}
}

// Verify scans every stride'th sample of region (sample indices 0,
// stride, 2*stride, ...) and compares each 4-byte sample, read as a
// little-endian 32-bit word, against two consecutive 16-bit counts
// starting at start. The running count advances twice per checked sample
// and wraps at 65536. A mismatch never stops the scan; every one is
// recorded and logged, and the result is OK only if none occurred.
//
// sampleSize sets the scan length in samples (len(region)/sampleSize);
// each checked sample itself spans 4 bytes.
func (v *Verifier) Verify(region []byte, sampleSize, stride int, start uint16) Result {
	res := Result{OK: true}
	count := start

	for i := 0; i < len(region)/sampleSize; i += stride {
		off := i * sampleSize

		lo := count
		count++
		hi := count
		count++
		expect := uint32(lo) | uint32(hi)<<16

		actual := binary.LittleEndian.Uint32(region[off : off+4])
		res.Checked++

		if actual != expect {
			res.OK = false
			res.Mismatches = append(res.Mismatches, Mismatch{
				Offset:   off,
				Expected: expect,
				Actual:   actual,
			})
			v.log.Error("pattern mismatch",
				logger.Int("offset", off),
				logger.Hex32("expected", expect),
				logger.Hex32("actual", actual))
		} else if v.log.DebugEnabled() {
			v.log.Debug("pattern ok",
				logger.Int("offset", off),
				logger.Hex32("word", actual))
		}
	}

	return res
}
