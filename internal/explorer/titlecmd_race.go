//go:build race

package explorer

import tea "github.com/charmbracelet/bubbletea"

func windowTitleCmd() tea.Cmd {
	return nil
}
