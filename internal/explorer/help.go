package explorer

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/distscope/distscope/internal/version"
)

// HelpEntry is one row of the help screen.
type HelpEntry struct {
	Key         string
	Description string
}

var blankLine = HelpEntry{}

// HelpModel is the scrollable help overlay.
type HelpModel struct {
	viewport viewport.Model
	active   bool
	width    int
	height   int
}

func NewHelp() *HelpModel {
	vp := viewport.New(80, 20)
	return &HelpModel{
		viewport: vp,
		active:   false,
	}
}

// generateHelpContent builds the text shown in the viewport.
func (h *HelpModel) generateHelpContent() string {
	artStyle := lipgloss.NewStyle().
		Foreground(distscopeColor).
		Bold(true)

	artSection := artStyle.Render(distscopeArt) + "\n\n"

	entries := h.entries()

	helpSection := ""
	for _, entry := range entries {
		switch {
		case entry.Key == "":
			helpSection += "\n"
		case entry.Description == "":
			helpSection += helpSectionStyle.Render(entry.Key) + "\n"
		default:
			key := helpKeyStyle.Render(entry.Key)
			desc := helpDescStyle.Render(entry.Description)
			helpSection += lipgloss.JoinHorizontal(lipgloss.Top, key, desc) + "\n"
		}
	}

	return artSection + helpSection
}

func (h *HelpModel) entries() []HelpEntry {
	entries := []HelpEntry{
		{Key: "── distscope: cumulative distribution explorer ──", Description: ""},
		{Key: "version", Description: version.Version},
		blankLine,
	}

	entries = append(entries, helpEntriesFromCategories(ExplorerKeyBindings())...)

	return entries
}

func helpEntriesFromCategories[T any](categories []BindingCategory[T]) []HelpEntry {
	var entries []HelpEntry
	for _, category := range categories {
		entries = append(entries, HelpEntry{Key: category.Name, Description: ""})
		for _, binding := range category.Bindings {
			entries = append(entries, HelpEntry{
				Key:         strings.Join(binding.Keys, ", "),
				Description: binding.Description,
			})
		}
		entries = append(entries, blankLine)
	}
	return entries
}

// SetSize resizes the overlay to the terminal.
func (h *HelpModel) SetSize(width, height int) {
	h.width = width
	h.height = height - StatusBarHeight
	h.viewport.Width = width
	h.viewport.Height = h.height

	if h.active {
		h.viewport.SetContent(h.generateHelpContent())
	}
}

// Toggle opens or closes the overlay, rebuilding content on open.
func (h *HelpModel) Toggle() {
	h.active = !h.active
	if h.active {
		h.viewport.GotoTop()
		h.viewport.SetContent(h.generateHelpContent())
	}
}

// IsActive reports whether the overlay is open.
func (h *HelpModel) IsActive() bool {
	return h.active
}

// Update routes messages while the overlay is open.
func (h *HelpModel) Update(msg tea.Msg) (*HelpModel, tea.Cmd) {
	if !h.active {
		return h, nil
	}

	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "h", "?", "esc":
			h.Toggle()
			return h, nil
		case "q", "ctrl+c":
			// Quitting works from inside the overlay too.
			return h, tea.Quit
		default:
			// Scrolling keys go to the viewport.
			h.viewport, cmd = h.viewport.Update(msg)
		}
	case tea.MouseMsg:
		// Wheel scrolling.
		h.viewport, cmd = h.viewport.Update(msg)
	}

	return h, cmd
}

// View renders the overlay, or nothing while it is closed.
func (h *HelpModel) View() string {
	if !h.active {
		return ""
	}

	content := helpContentStyle.Render(h.viewport.View())

	return lipgloss.Place(
		h.width,
		h.height,
		lipgloss.Left,
		lipgloss.Top,
		content,
	)
}
