package display

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Service provides formatted console output for the CLI surface. It renders
// status lines, headers, and tables; the engine itself never writes to it
// directly, only through results and the progress sink.
type Service struct {
	writer   io.Writer
	colorSys ColorSystem
}

// NewService creates a display service writing to writer. A nil writer
// defaults to stdout.
func NewService(writer io.Writer, colorSys ColorSystem) *Service {
	if writer == nil {
		writer = os.Stdout
	}
	return &Service{writer: writer, colorSys: colorSys}
}

// Writer exposes the underlying writer so progress bars can share the line
// discipline.
func (s *Service) Writer() io.Writer {
	return s.writer
}

// ColorSystem returns the color system in use.
func (s *Service) ColorSystem() ColorSystem {
	return s.colorSys
}

// Success prints a success status line.
func (s *Service) Success(message string) {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer, s.colorSys.Sprintf(theme.Success, "• %s", message))
}

// Warning prints a warning status line.
func (s *Service) Warning(message string) {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer, s.colorSys.Sprintf(theme.Warning, "! %s", message))
}

// Error prints an error status line.
func (s *Service) Error(message string) {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer, s.colorSys.Sprintf(theme.Error, "✗ %s", message))
}

// Info prints an informational line.
func (s *Service) Info(message string) {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer, s.colorSys.Sprintf(theme.Info, "%s", message))
}

// PrintHeader prints a section header with an underline.
func (s *Service) PrintHeader(title string) {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer)
	fmt.Fprintln(s.writer, s.colorSys.Colorize(title, theme.Highlight))
	fmt.Fprintln(s.writer, s.colorSys.Colorize(strings.Repeat("─", len(title)), theme.Muted))
}

// PrintTable renders headers and rows as a plain aligned table.
func (s *Service) PrintTable(headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	theme := s.colorSys.GetTheme()
	var line strings.Builder
	for i, h := range headers {
		line.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	fmt.Fprintln(s.writer, s.colorSys.Colorize(strings.TrimRight(line.String(), " "), theme.Highlight))

	for _, row := range rows {
		line.Reset()
		for i, cell := range row {
			if i < len(widths) {
				line.WriteString(fmt.Sprintf("%-*s  ", widths[i], cell))
			}
		}
		fmt.Fprintln(s.writer, strings.TrimRight(line.String(), " "))
	}
}
