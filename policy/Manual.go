package policy

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/samuelfneumann/racetrack/timestep"
	"github.com/samuelfneumann/racetrack/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// AxisSource supplies the raw horizontal and vertical input axes, each
// in [-1, 1], for manual control
type AxisSource interface {
	Axes() (horizontal, vertical float64)
}

// Layout determines how input axes map onto action dimensions
type Layout int

const (
	// Drive maps the vertical axis to throttle/brake and the
	// horizontal axis to steering
	Drive Layout = iota

	// Move maps the horizontal and vertical axes to x and y
	// displacement
	Move
)

// Manual substitutes an external input source for a trained policy.
// The actions it returns have the same semantics as a trained policy's
// actions.
type Manual struct {
	source AxisSource
	layout Layout
}

// NewManual returns a new Manual policy
func NewManual(source AxisSource, layout Layout) *Manual {
	return &Manual{source, layout}
}

// SelectAction reads the current input axes. The TimeStep is ignored.
func (m *Manual) SelectAction(_ timestep.TimeStep) *mat.VecDense {
	horizontal, vertical := m.source.Axes()
	horizontal = floatutils.Clip(horizontal, -1, 1)
	vertical = floatutils.Clip(vertical, -1, 1)

	if m.layout == Drive {
		return mat.NewVecDense(2, []float64{vertical, horizontal})
	}
	return mat.NewVecDense(2, []float64{horizontal, vertical})
}

// FixedAxes always returns the same input axes
type FixedAxes struct {
	Horizontal float64
	Vertical   float64
}

// Axes returns the fixed axes
func (f FixedAxes) Axes() (float64, float64) {
	return f.Horizontal, f.Vertical
}

// ReaderAxes reads input axes from lines of the form "horizontal
// vertical". Each call to Axes consumes one line. Once the reader is
// exhausted, or if a line cannot be parsed, the last axes read are
// returned again.
type ReaderAxes struct {
	mu         sync.Mutex
	scanner    *bufio.Scanner
	horizontal float64
	vertical   float64
	err        error
}

// NewReaderAxes returns a new ReaderAxes reading from r
func NewReaderAxes(r io.Reader) *ReaderAxes {
	return &ReaderAxes{scanner: bufio.NewScanner(r)}
}

// Axes reads the next input axes
func (r *ReaderAxes) Axes() (float64, float64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil || !r.scanner.Scan() {
		return r.horizontal, r.vertical
	}

	horizontal, vertical, err := parseAxes(r.scanner.Text())
	if err != nil {
		r.err = err
		return r.horizontal, r.vertical
	}
	r.horizontal, r.vertical = horizontal, vertical
	return horizontal, vertical
}

// Err returns the first parse error encountered, if any
func (r *ReaderAxes) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	return r.scanner.Err()
}

func parseAxes(line string) (float64, float64, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("parseAxes: expected 2 axes, got %d in %q",
			len(fields), line)
	}

	horizontal, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parseAxes: %w", err)
	}
	vertical, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parseAxes: %w", err)
	}
	return horizontal, vertical, nil
}
