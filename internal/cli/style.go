package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// stderrIsTerminal gates styling so piped and CI output stays plain.
func stderrIsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func render(style lipgloss.Style, msg string) string {
	if !stderrIsTerminal() {
		return msg
	}
	return style.Render(msg)
}

// statusf prints a status line to stderr. Stdout is reserved for the
// resolved database URL.
func statusf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, render(successStyle, fmt.Sprintf(format, args...)))
}

func warnf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, render(warnStyle, fmt.Sprintf(format, args...)))
}

func errorf(format string, args ...interface{}) {
	fmt.Fprintln(os.Stderr, render(errorStyle, fmt.Sprintf(format, args...)))
}
