// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"math"
	"strings"
	"sync"
	"time"
)

// ManualProgressBar implement progress bar functionality that must
// be manually managed. That is, the Display() function must be called
// whenever an updated progress bar should be printed.
//
// ManualProgressBar is safe for concurrent use, so that several
// goroutines may increment the same bar.
type ManualProgressBar struct {
	mu              sync.Mutex
	out             io.Writer
	width           float64
	maxProgress     float64
	currentProgress float64
	bar             strings.Builder
	startTime       time.Time
}

// NewManualProgressBar returns a new ManualProgressBar which is width
// characters wide, reaches 100% after max increments and prints to
// out
func NewManualProgressBar(out io.Writer, width, max int) *ManualProgressBar {
	if max <= 0 {
		max = 1
	}

	return &ManualProgressBar{
		out:         out,
		width:       float64(width),
		maxProgress: float64(max),
		startTime:   time.Now(),
	}
}

// Increment increments the interal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ManualProgressBar) Increment() {
	p.Add(1)
}

// Add advances the progress counter by n iterations, saturating at the
// maximum
func (p *ManualProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.currentProgress = math.Min(p.currentProgress+float64(n),
		p.maxProgress)
}

// Progress returns the fraction of the progress bar that is complete
func (p *ManualProgressBar) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentProgress / p.maxProgress
}

// Display prints the progress bar, overwriting the previously printed
// bar on the same line
func (p *ManualProgressBar) Display() {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "\r\033[K%v", p.render())
}

// Finish displays the progress bar a final time and moves to the next
// line
func (p *ManualProgressBar) Finish() {
	p.Display()
	fmt.Fprintln(p.out)
}

func (p *ManualProgressBar) render() string {
	p.bar.Reset()
	p.bar.WriteString("|")

	currentProg := p.currentProgress / p.maxProgress * p.width
	for i := 0.0; i < currentProg; i++ {
		p.bar.WriteString("█")
	}
	for i := currentProg; i < p.width; i++ {
		p.bar.WriteString(" ")
	}
	p.bar.WriteString(fmt.Sprintf("| [%.2f%v | elapsed: %v]",
		p.currentProgress/p.maxProgress*100, "%",
		time.Since(p.startTime).Truncate(time.Second)))

	return p.bar.String()
}
