package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6366F1"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Width(12)
	errorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#DC2626"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#16A34A"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6366F1")).
			Padding(0, 2)
)

// printBanner writes the startup banner. It is the only output visible in
// the terminal during normal operation; structured logs go to the log file.
func printBanner(w io.Writer, version string, rows [][2]string) {
	lines := titleStyle.Render("notificator "+version) + "\n"
	for _, r := range rows {
		lines += "\n" + labelStyle.Render(r[0]) + r[1]
	}
	_, _ = fmt.Fprintln(w, boxStyle.Render(lines))
}
