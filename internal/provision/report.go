package provision

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	headStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true)
)

// PrintResult writes one stage record as a line of the plain (non-TUI)
// progress output.
func PrintResult(w io.Writer, r Result) {
	tag := okStyle.Render("[ ok ]")
	switch r.Status {
	case StatusSkipped:
		tag = skipStyle.Render("[skip]")
	case StatusFailed:
		tag = failStyle.Render("[fail]")
	}
	fmt.Fprintf(w, "%s %s", tag, r.Stage)
	if r.Detail != "" {
		fmt.Fprintf(w, "  %s", detailStyle.Render(r.Detail))
	}
	fmt.Fprintln(w)
}

// PrintSummary writes the final report for a finished run.
func PrintSummary(w io.Writer, d *Driver) {
	if d.State() != StateDone {
		fmt.Fprintf(w, "\n%s reached state %s\n", failStyle.Render("provisioning failed:"), d.State())
		return
	}

	fmt.Fprintf(w, "\n%s\n", headStyle.Render("provisioning complete"))
	cfg := d.Config()
	fmt.Fprintf(w, "base directory: %s (owner %d:%d)\n", cfg.BaseDir, cfg.UID, cfg.GID)
	fmt.Fprintln(w, "services:")
	for _, s := range d.Services() {
		fmt.Fprintf(w, "  %-12s %s\n", s.Name, s.State)
	}
	fmt.Fprintf(w, "\nvisit https://%s once certificates are issued\n", cfg.Vars["DOMAIN"])
}
