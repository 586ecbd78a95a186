package tui

import tea "github.com/charmbracelet/bubbletea"

func isQuit(msg tea.KeyMsg) bool {
	return msg.String() == "ctrl+c"
}
