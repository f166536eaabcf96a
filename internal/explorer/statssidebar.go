package explorer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/threshold"
)

const (
	statsHeader = "Dataset"

	// Sidebar content padding (accounts for borders and internal spacing).
	sidebarContentPadding = 3
)

// StatsSidebar is a collapsible right panel showing descriptive
// statistics for the loaded dataset and the current threshold
// selection.
type StatsSidebar struct {
	config    *ConfigManager
	animState *AnimationState

	dataset *Dataset
	stats   cdf.Stats

	state    threshold.State
	logScale bool
}

// NewStatsSidebar creates the sidebar, expanded or collapsed per the
// saved configuration.
func NewStatsSidebar(config *ConfigManager) *StatsSidebar {
	return &StatsSidebar{
		config:    config,
		animState: NewAnimationState(config.SidebarVisible(), SidebarMinWidth),
	}
}

// SetDataset installs the dataset whose summary is displayed.
func (s *StatsSidebar) SetDataset(ds *Dataset, stats cdf.Stats) {
	s.dataset = ds
	s.stats = stats
}

// SetThreshold updates the displayed threshold snapshot.
func (s *StatsSidebar) SetThreshold(state threshold.State, logScale bool) {
	s.state = state
	s.logScale = logScale
}

// UpdateDimensions updates the sidebar dimensions based on terminal width.
func (s *StatsSidebar) UpdateDimensions(terminalWidth int) {
	calculated := int(float64(terminalWidth) * SidebarWidthRatio)
	s.animState.SetExpandedWidth(
		min(max(calculated, SidebarMinWidth), SidebarMaxWidth))
}

// Toggle toggles the sidebar between expanded and collapsed states.
func (s *StatsSidebar) Toggle() {
	s.animState.Toggle()
}

// Width returns the current width of the sidebar.
func (s *StatsSidebar) Width() int {
	return s.animState.Width()
}

// IsVisible returns true if the sidebar is visible.
func (s *StatsSidebar) IsVisible() bool {
	return s.animState.IsVisible()
}

// IsAnimating returns true if the sidebar is currently animating.
func (s *StatsSidebar) IsAnimating() bool {
	return s.animState.IsAnimating()
}

// Update advances the expand/collapse animation.
func (s *StatsSidebar) Update(msg tea.Msg) (*StatsSidebar, tea.Cmd) {
	if s.animState.IsAnimating() {
		cmd, _ := s.animState.Update()
		return s, cmd
	}
	return s, nil
}

// animationCmd returns a command to continue the animation.
func (s *StatsSidebar) animationCmd() tea.Cmd {
	return s.animState.animationCmd()
}

// View renders the sidebar at the given height.
func (s *StatsSidebar) View(height int) string {
	if s.animState.Width() <= sidebarContentPadding {
		return ""
	}

	content := lipgloss.JoinVertical(lipgloss.Left, s.buildLines()...)

	styledContent := sidebarStyle.
		Width(s.animState.Width() - 1).
		Height(height).
		MaxWidth(s.animState.Width() - 1).
		MaxHeight(height).
		Render(content)

	return sidebarBorderStyle.
		Width(s.animState.Width()).
		Height(height).
		MaxHeight(height).
		Render(styledContent)
}

func (s *StatsSidebar) buildLines() []string {
	lines := []string{sidebarHeaderStyle.Render(statsHeader), ""}

	if s.dataset == nil {
		lines = append(lines, s.row("status", "loading..."))
		return lines
	}

	valueWidth := max(s.animState.Width()-sidebarContentPadding-9, 8)
	lines = append(lines, s.row("file", TruncatePath(s.dataset.Path, valueWidth)))
	if s.dataset.Label != "" {
		lines = append(lines, s.row("column", s.dataset.Label))
	}
	points := fmt.Sprintf("%d", s.stats.N)
	if s.dataset.Dropped > 0 {
		points += fmt.Sprintf(" (%d dropped)", s.dataset.Dropped)
	}
	lines = append(lines,
		s.row("points", points),
		s.row("loaded", s.dataset.LoadedAt.Format("15:04:05")),
	)

	if s.stats.N > 0 {
		lines = append(lines,
			"",
			sidebarSectionStyle.Render(" Values"),
			s.row("min", FormatValue(s.stats.Min)),
			s.row("max", FormatValue(s.stats.Max)),
			s.row("mean", FormatValue(s.stats.Mean)),
			s.row("std dev", FormatValue(s.stats.StdDev)),
			s.row("median", FormatValue(s.stats.Median)),
			s.row("p90", FormatValue(s.stats.P90)),
			s.row("p99", FormatValue(s.stats.P99)),
		)

		scaleLabel := "linear"
		if s.logScale {
			scaleLabel = "log"
		}
		lines = append(lines,
			"",
			sidebarSectionStyle.Render(" Threshold"),
			s.row("mode", fmt.Sprintf("%s (%s)", s.state.Mode.Symbol(), s.state.Mode)),
			s.row("value", FormatValue(s.state.Value)),
			s.row("kept", fmt.Sprintf("%d (%s)", s.state.Count, FormatPercent(s.share()))),
			s.row("scale", scaleLabel),
		)
		if s.state.Dragging {
			lines = append(lines, "", hairlineStyle.Render(" ● dragging"))
		}
	}

	return lines
}

// share returns the kept count as a percentage of the dataset.
func (s *StatsSidebar) share() float64 {
	if s.stats.N == 0 {
		return 0
	}
	return float64(s.state.Count) / float64(s.stats.N) * 100
}

func (s *StatsSidebar) row(key, value string) string {
	return sidebarKeyStyle.Render(fmt.Sprintf(" %-8s", key)) +
		sidebarValueStyle.Render(value)
}
