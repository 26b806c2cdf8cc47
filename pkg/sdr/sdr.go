package sdr

// SampleFormat identifies the wire format samples use inside a stream buffer.
type SampleFormat int

const (
	// FormatSC16Q11 holds complex signed 16-bit I/Q samples (4 bytes each).
	FormatSC16Q11 SampleFormat = iota
	// FormatSC16Q11Meta is SC16Q11 with a metadata prefix on each buffer.
	FormatSC16Q11Meta
	// FormatSC8Q7 holds complex signed 8-bit I/Q samples (2 bytes each).
	FormatSC8Q7
	// FormatSC8Q7Meta is SC8Q7 with a metadata prefix on each buffer.
	FormatSC8Q7Meta
)

// MetadataSize is the byte length of the metadata prefix carried by the
// *Meta formats. The prefix holds out-of-band timing/flag information and
// must pass through the interleaver untouched.
const MetadataSize = 16

func (f SampleFormat) String() string {
	switch f {
	case FormatSC16Q11:
		return "SC16_Q11"
	case FormatSC16Q11Meta:
		return "SC16_Q11_META"
	case FormatSC8Q7:
		return "SC8_Q7"
	case FormatSC8Q7Meta:
		return "SC8_Q7_META"
	default:
		return "UNKNOWN"
	}
}

// BytesPerSample returns the byte width of one complex sample in format f.
func BytesPerSample(f SampleFormat) int {
	switch f {
	case FormatSC8Q7, FormatSC8Q7Meta:
		return 2
	default:
		return 4
	}
}

// MetadataBytes returns the length of the metadata prefix for format f,
// or 0 for formats without one.
func MetadataBytes(f SampleFormat) int {
	switch f {
	case FormatSC16Q11Meta, FormatSC8Q7Meta:
		return MetadataSize
	default:
		return 0
	}
}

// ChannelLayout describes how many independent sample channels a stream
// direction uses.
type ChannelLayout int

const (
	LayoutRX1 ChannelLayout = iota // RX, single channel
	LayoutRX2                      // RX, channels 0 and 1 (MIMO)
	LayoutTX1                      // TX, single channel
	LayoutTX2                      // TX, channels 0 and 1 (MIMO)
)

func (l ChannelLayout) String() string {
	switch l {
	case LayoutRX1:
		return "RX_X1"
	case LayoutRX2:
		return "RX_X2"
	case LayoutTX1:
		return "TX_X1"
	case LayoutTX2:
		return "TX_X2"
	default:
		return "UNKNOWN"
	}
}

// ChannelCount returns the number of channels in layout l.
func ChannelCount(l ChannelLayout) int {
	switch l {
	case LayoutRX2, LayoutTX2:
		return 2
	default:
		return 1
	}
}
