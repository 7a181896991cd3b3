package display

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const banner = `
  ____             _                  _____           _
 | __ )  __ _  ___| | ___   _ _ __   |_   _|__   ___ | |
 |  _ \ / _` + "`" + ` |/ __| |/ / | | | '_ \    | |/ _ \ / _ \| |
 | |_) | (_| | (__|   <| |_| | |_) |   | | (_) | (_) | |
 |____/ \__,_|\___|_|\_\\__,_| .__/    |_|\___/ \___/|_|
                             |_|
`

// MenuOption is one selectable entry in the interactive menu.
type MenuOption struct {
	Key         string
	Title       string
	Description string
}

// PrintBanner renders the startup banner.
func (s *Service) PrintBanner() {
	theme := s.colorSys.GetTheme()
	fmt.Fprintln(s.writer, s.colorSys.Colorize(banner, theme.Primary))
}

// PrintMenu renders the numbered option menu.
func (s *Service) PrintMenu(title string, options []MenuOption) {
	s.PrintHeader(title)
	theme := s.colorSys.GetTheme()
	for _, opt := range options {
		key := s.colorSys.Sprintf(theme.Primary, "-[%s]-", opt.Key)
		fmt.Fprintf(s.writer, "  %s %-22s %s\n", key, opt.Title, opt.Description)
	}
	fmt.Fprintln(s.writer)
}

// ReadChoice prompts for a menu choice and returns the trimmed input.
func (s *Service) ReadChoice(in io.Reader, prompt string) (string, error) {
	theme := s.colorSys.GetTheme()
	fmt.Fprint(s.writer, s.colorSys.Sprintf(theme.Primary, "%s ", prompt))

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
