package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/term"
)

// ProgressBar renders a single-line progress bar with a status message. It
// satisfies the engine's progress sink contract: SetTotal resets the bar,
// Advance moves it, SetDescription swaps the status text.
type ProgressBar struct {
	current  int
	total    int
	message  string
	width    int
	writer   io.Writer
	colorSys ColorSystem
	enabled  bool
	mu       sync.Mutex
}

// NewProgressBar creates a progress bar writing to writer. A disabled bar
// swallows all events, which keeps the engine's side channel cheap when
// progress output is turned off.
func NewProgressBar(writer io.Writer, colorSys ColorSystem, enabled bool) *ProgressBar {
	return &ProgressBar{
		width:    barWidth(),
		writer:   writer,
		colorSys: colorSys,
		enabled:  enabled,
	}
}

// SetTotal announces the total number of steps and resets progress.
func (pb *ProgressBar) SetTotal(total int) {
	pb.mu.Lock()
	pb.total = total
	pb.current = 0
	pb.mu.Unlock()
	pb.render()
}

// Advance moves the bar forward by n steps.
func (pb *ProgressBar) Advance(n int) {
	pb.mu.Lock()
	pb.current += n
	pb.mu.Unlock()
	pb.render()
}

// SetDescription updates the status message next to the bar.
func (pb *ProgressBar) SetDescription(text string) {
	pb.mu.Lock()
	pb.message = text
	pb.mu.Unlock()
	pb.render()
}

// Finish completes the line so subsequent output starts fresh.
func (pb *ProgressBar) Finish() {
	if !pb.enabled {
		return
	}
	pb.mu.Lock()
	defer pb.mu.Unlock()
	fmt.Fprint(pb.writer, "\r\033[K")
}

// render draws the progress bar
func (pb *ProgressBar) render() {
	if !pb.enabled {
		return
	}

	pb.mu.Lock()
	current := pb.current
	total := pb.total
	message := pb.message
	width := pb.width
	pb.mu.Unlock()

	if total <= 0 {
		fmt.Fprintf(pb.writer, "\r\033[K%s", message)
		return
	}

	percentage := float64(current) / float64(total) * 100
	if percentage > 100 {
		percentage = 100
	}

	filledWidth := int(float64(width) * float64(current) / float64(total))
	if filledWidth > width {
		filledWidth = width
	}

	filled := strings.Repeat("█", filledWidth)
	empty := strings.Repeat("░", width-filledWidth)

	var bar string
	if pb.colorSys != nil && pb.colorSys.IsColorSupported() {
		theme := pb.colorSys.GetTheme()
		bar = fmt.Sprintf("[%s%s]",
			pb.colorSys.Colorize(filled, theme.Success),
			pb.colorSys.Colorize(empty, theme.Muted))
	} else {
		bar = fmt.Sprintf("[%s%s]", filled, empty)
	}

	fmt.Fprintf(pb.writer, "\r\033[K%s %5.1f%% (%d/%d) %s", bar, percentage, current, total, message)
}

// barWidth sizes the bar to fit the terminal, with room for the counters and
// status text.
func barWidth() int {
	width, _, err := term.GetSize(0) // stdin
	if err != nil || width < 60 {
		return 30
	}
	if width > 140 {
		return 50
	}
	return width / 3
}
