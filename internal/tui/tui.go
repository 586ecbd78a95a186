// Package tui renders the interactive progress view for a provisioning run.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Hassan-ach/homelab/internal/provision"
)

// RunProvision drives one provisioning run inside a bubbletea program and
// returns the run's error. The view is left on screen when the program
// exits so the final stage list and summary stay visible.
func RunProvision(driver *provision.Driver) error {
	m := newProgressModel(driver)
	p := tea.NewProgram(m)
	final, err := p.Run()
	if err != nil {
		return err
	}
	if pm, ok := final.(*progressModel); ok {
		return pm.err
	}
	return m.err
}
