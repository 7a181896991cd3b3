package display

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Color represents terminal color options
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightCyan
	ColorBrightWhite
)

// ColorTheme defines the color scheme for different message types
type ColorTheme struct {
	Primary   Color
	Success   Color
	Warning   Color
	Error     Color
	Info      Color
	Muted     Color
	Highlight Color
}

// ColorSystem handles color application and terminal detection
type ColorSystem interface {
	Colorize(text string, clr Color) string
	Sprintf(clr Color, format string, args ...interface{}) string
	IsColorSupported() bool
	GetTheme() ColorTheme
}

// colorSystem implements ColorSystem interface
type colorSystem struct {
	theme          ColorTheme
	colorSupported bool
	profile        termenv.Profile
	colorMap       map[Color]*color.Color
}

// NewColorSystem creates a new color system with terminal detection
func NewColorSystem(theme ColorTheme, forceDisable bool) ColorSystem {
	cs := &colorSystem{
		theme:          theme,
		colorSupported: !forceDisable && detectColorSupport(),
		profile:        termenv.ColorProfile(),
	}
	cs.initializeColorMap()
	return cs
}

// detectColorSupport checks if the terminal supports colors
func detectColorSupport() bool {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return false
	}
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}
	if termenv.ColorProfile() == termenv.Ascii {
		return false
	}
	return true
}

// initializeColorMap sets up the mapping between Color constants and fatih/color colors
func (cs *colorSystem) initializeColorMap() {
	cs.colorMap = map[Color]*color.Color{
		ColorReset:        color.New(color.Reset),
		ColorRed:          color.New(color.FgRed),
		ColorGreen:        color.New(color.FgGreen),
		ColorYellow:       color.New(color.FgYellow),
		ColorBlue:         color.New(color.FgBlue),
		ColorMagenta:      color.New(color.FgMagenta),
		ColorCyan:         color.New(color.FgCyan),
		ColorWhite:        color.New(color.FgWhite),
		ColorBrightRed:    color.New(color.FgHiRed),
		ColorBrightGreen:  color.New(color.FgHiGreen),
		ColorBrightYellow: color.New(color.FgHiYellow),
		ColorBrightBlue:   color.New(color.FgHiBlue),
		ColorBrightCyan:   color.New(color.FgHiCyan),
		ColorBrightWhite:  color.New(color.FgHiWhite),
	}

	if !cs.colorSupported {
		color.NoColor = true
	}
}

// Colorize applies color to text if color is supported
func (cs *colorSystem) Colorize(text string, clr Color) string {
	if !cs.colorSupported {
		return text
	}
	if colorFunc, exists := cs.colorMap[clr]; exists {
		return colorFunc.Sprint(text)
	}
	return text
}

// Sprintf formats text with color using a format string
func (cs *colorSystem) Sprintf(clr Color, format string, args ...interface{}) string {
	return cs.Colorize(fmt.Sprintf(format, args...), clr)
}

// IsColorSupported returns whether colors are supported
func (cs *colorSystem) IsColorSupported() bool {
	return cs.colorSupported
}

// GetTheme returns the current color theme
func (cs *colorSystem) GetTheme() ColorTheme {
	return cs.theme
}

// DefaultColorTheme returns the default color theme
func DefaultColorTheme() ColorTheme {
	return ColorTheme{
		Primary:   ColorCyan,
		Success:   ColorBrightGreen,
		Warning:   ColorBrightYellow,
		Error:     ColorBrightRed,
		Info:      ColorCyan,
		Muted:     ColorWhite,
		Highlight: ColorBrightCyan,
	}
}
