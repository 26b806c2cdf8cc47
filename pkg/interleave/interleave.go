// Package interleave rearranges per-channel sample streams into the
// time-multiplexed layout the data path transmits, and back. For an
// N-channel buffer the data region starts as N contiguous per-channel
// blocks; interleaving scatters them to channel-0-sample-0,
// channel-1-sample-0, channel-0-sample-1, and so on. A metadata prefix,
// when the format carries one, passes through untouched. Single-channel
// layouts are a no-op in both directions.
package interleave

import (
	"fmt"

	"github.com/dbehnke/iq-verify/pkg/sdr"
)

// Gateway applies the data path's channel interleaving in place. Both
// operations mutate buf and return a non-nil error on failure, leaving
// buf in an unspecified state.
type Gateway interface {
	Interleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error
	Deinterleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error
}

// Transform is the in-place reference implementation of Gateway.
type Transform struct{}

// New creates the reference transform.
func New() *Transform {
	return &Transform{}
}

// Interleave scatters contiguous per-channel blocks into the
// time-multiplexed layout.
func (Transform) Interleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error {
	return run(layout, format, numSamples, buf, false)
}

// Deinterleave gathers the time-multiplexed layout back into contiguous
// per-channel blocks.
func (Transform) Deinterleave(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte) error {
	return run(layout, format, numSamples, buf, true)
}

func run(layout sdr.ChannelLayout, format sdr.SampleFormat, numSamples int, buf []byte, inverse bool) error {
	numChan := sdr.ChannelCount(layout)
	if numChan == 1 {
		// Nothing to rearrange
		return nil
	}

	sampSize := sdr.BytesPerSample(format)
	meta := sdr.MetadataBytes(format)
	total := sampSize * numSamples

	if len(buf) < total {
		return fmt.Errorf("buffer is %d bytes, need %d for %d samples of %v",
			len(buf), total, numSamples, format)
	}
	if total < meta {
		return fmt.Errorf("%d bytes cannot hold the %d byte metadata prefix", total, meta)
	}

	data := buf[meta:total]
	if len(data)%(sampSize*numChan) != 0 {
		return fmt.Errorf("data region of %d bytes does not divide into %d channels of %d byte samples",
			len(data), numChan, sampSize)
	}

	perChan := len(data) / sampSize / numChan
	scratch := make([]byte, len(data))

	for ch := 0; ch < numChan; ch++ {
		for s := 0; s < perChan; s++ {
			block := (ch*perChan + s) * sampSize
			mux := (s*numChan + ch) * sampSize
			if inverse {
				copy(scratch[block:block+sampSize], data[mux:mux+sampSize])
			} else {
				copy(scratch[mux:mux+sampSize], data[block:block+sampSize])
			}
		}
	}

	copy(data, scratch)
	return nil
}
