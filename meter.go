package scnp

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"
)

// Meter display window in dB.
const (
	meterFloorDB   = -100.0
	meterCeilingDB = 0.0
)

// Meter defaults.
const (
	DefaultMeterWidth    = 63
	DefaultMeterInterval = 100 * time.Millisecond
)

// LevelReader reads the raw meter level. *Session implements it.
type LevelReader interface {
	ReadMeter() (uint32, error)
}

// MeterSummary holds the extremes seen during one meter run. The dB values
// are not clamped to the display window.
type MeterSummary struct {
	MinValue uint32
	MaxValue uint32
	MinDB    float64
	MaxDB    float64
	Samples  int
}

// Meter draws a live bar graph of the device level on a terminal.
type Meter struct {
	Reader   LevelReader
	Out      io.Writer
	Name     string // device name for the header line
	Width    int
	Interval time.Duration
}

// NewMeter returns a meter with the default width and poll interval.
func NewMeter(reader LevelReader, out io.Writer, name string) *Meter {
	return &Meter{
		Reader:   reader,
		Out:      out,
		Name:     name,
		Width:    DefaultMeterWidth,
		Interval: DefaultMeterInterval,
	}
}

// ClampDB constrains a dB reading into the display window.
func ClampDB(dB float64) float64 {
	if dB < meterFloorDB {
		return meterFloorDB
	}
	if dB > meterCeilingDB {
		return meterCeilingDB
	}
	return dB
}

// BarIndex maps a clamped dB value onto [0, width]. Anything else means the
// clamping was broken and is reported as ErrBarIndex.
func BarIndex(dB float64, width int) (int, error) {
	d := ((100.0 + dB) * float64(width)) * 0.01
	// truncation, so 63.00000000000001 still lands on the last cell
	if math.IsNaN(d) || d < 0 || d >= float64(width+1) {
		return 0, fmt.Errorf("BarIndex(%g, %d): %w", dB, width, ErrBarIndex)
	}
	return int(d), nil
}

func renderBar(idx, width int) string {
	var b strings.Builder
	b.Grow(width + 2)
	b.WriteByte('[')
	b.WriteString(strings.Repeat("#", idx))
	b.WriteString(strings.Repeat("-", width-idx))
	b.WriteByte(']')
	return b.String()
}

// Run polls the level until ctx is cancelled or a read fails. On
// cancellation the last line is redrawn and the summary printed.
func (m *Meter) Run(ctx context.Context) (sum MeterSummary, err error) {
	width := m.Width
	if width <= 0 {
		width = DefaultMeterWidth
	}

	sum = MeterSummary{
		MinValue: math.MaxUint32,
		MaxValue: 0,
		MinDB:    math.MaxFloat64,
		MaxDB:    -math.MaxFloat64,
	}

	fmt.Fprintf(m.Out, "meter for %s. Press Ctrl-C to quit.\n", m.Name)
	fmt.Fprintf(m.Out, "uintval   dB    bar graph\n")

	for {
		var cur uint32
		cur, err = m.Reader.ReadMeter()
		if err != nil {
			fmt.Fprintln(m.Out)
			return
		}
		sum.Samples++
		if cur < sum.MinValue {
			sum.MinValue = cur
		}
		if cur > sum.MaxValue {
			sum.MaxValue = cur
		}

		rawDB := MeterFamily.ToDB(cur)
		if rawDB < sum.MinDB {
			sum.MinDB = rawDB
		}
		if rawDB > sum.MaxDB {
			sum.MaxDB = rawDB
		}

		dB := ClampDB(rawDB)
		var idx int
		idx, err = BarIndex(dB, width)
		if err != nil {
			fmt.Fprintln(m.Out)
			return
		}
		bar := renderBar(idx, width)
		fmt.Fprintf(m.Out, "%07x %6.1f %s\r", cur, dB, bar)

		select {
		case <-ctx.Done():
		case <-time.After(m.Interval):
		}

		if ctx.Err() != nil {
			// overwrite the "^C" the terminal echoed at the line start
			fmt.Fprintf(m.Out, "\r%07x %6.1f %s  \r", cur, dB, bar)
			break
		}
	}

	fmt.Fprintln(m.Out)
	sum.Write(m.Out)
	return sum, nil
}

// Write prints the summary block.
func (s MeterSummary) Write(w io.Writer) {
	fmt.Fprintf(w, "meter summary:\n"+
		"  %s  %9d = 0x%08x  %6.1fdB\n"+
		"  %s  %9d = 0x%08x  %6.1fdB\n",
		"minimum", s.MinValue, s.MinValue, s.MinDB,
		"maximum", s.MaxValue, s.MaxValue, s.MaxDB)
}
