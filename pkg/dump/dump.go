// Package dump renders buffer regions as hex grids for human tracing.
// Output goes through the logger at debug level and has no bearing on
// verification outcomes.
package dump

import (
	"fmt"
	"strings"

	"github.com/dbehnke/iq-verify/pkg/logger"
)

// Defaults matching the data path's 4-byte samples.
const (
	DefaultCellWidth = 4
	DefaultColumns   = 8

	// excerptBytes is how much of each end of a large buffer the
	// excerpt dump shows.
	excerptBytes = 48
)

// Config controls dump output.
type Config struct {
	Enabled   bool
	Columns   int
	CellWidth int
	Excerpt   bool // emit head/tail excerpts of each buffer around the transform
}

// Dumper writes hex grids through a logger.
type Dumper struct {
	cfg Config
	log *logger.Logger
}

// New creates a dumper. Zero Columns or CellWidth fall back to defaults.
func New(cfg Config, log *logger.Logger) *Dumper {
	if cfg.Columns <= 0 {
		cfg.Columns = DefaultColumns
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = DefaultCellWidth
	}
	return &Dumper{cfg: cfg, log: log}
}

// Enabled reports whether Grid and Excerpt will produce output.
func (d *Dumper) Enabled() bool {
	return d.cfg.Enabled && d.log.DebugEnabled()
}

// Grid renders buf as rows of fixed-width hex cells.
func (d *Dumper) Grid(label string, buf []byte) {
	if !d.Enabled() {
		return
	}
	d.grid(label, 0, buf, d.cfg.Columns)
}

// Excerpt renders the head and tail of buf in a narrow two-column grid,
// or the whole buffer when it is small enough to show outright.
func (d *Dumper) Excerpt(label string, buf []byte) {
	if !d.Enabled() || !d.cfg.Excerpt {
		return
	}
	if len(buf) <= 2*excerptBytes {
		d.grid(label, 0, buf, 2)
		return
	}
	d.grid(label, 0, buf[:excerptBytes], 2)
	d.log.Debug(fmt.Sprintf("%s: ...", label))
	d.grid(label, len(buf)-excerptBytes, buf[len(buf)-excerptBytes:], 2)
}

func (d *Dumper) grid(label string, base int, buf []byte, columns int) {
	cell := d.cfg.CellWidth
	if len(buf) < cell {
		return
	}
	if c := len(buf) / cell; c < columns {
		columns = c
	}

	rowBytes := columns * cell
	var row strings.Builder

	for off := 0; off < len(buf); off += rowBytes {
		row.Reset()
		for col := 0; col < columns; col++ {
			start := off + col*cell
			if start+cell > len(buf) {
				break
			}
			if col > 0 {
				row.WriteByte(' ')
			}
			fmt.Fprintf(&row, "%x", buf[start:start+cell])
		}
		d.log.Debug(fmt.Sprintf("%s %06x: %s", label, base+off, row.String()))
	}
}
