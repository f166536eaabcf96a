package explorer

import "github.com/charmbracelet/lipgloss"

// Layout constants
const (
	StatusBarHeight  = 1
	StatusBarPadding = 1
	MinChartWidth    = 24
	MinChartHeight   = 6
)

// Sidebar constants
const (
	SidebarWidthRatio = 0.382
	SidebarMinWidth   = 28
	SidebarMaxWidth   = 44
)

// distscope brand color
const distscopeColor = lipgloss.Color("#4ECDC4")

// Block letters for the loading screen and the help header.
const distscopeArt = `
██████  ██ ███████ ████████ ███████  ██████   ██████  ██████  ███████
██   ██ ██ ██         ██    ██      ██       ██    ██ ██   ██ ██
██   ██ ██ ███████    ██    ███████ ██       ██    ██ ██████  █████
██   ██ ██      ██    ██         ██ ██       ██    ██ ██      ██
██████  ██ ███████    ██    ███████  ██████   ██████  ██      ███████
`

// Chart colors
var (
	curveColor    = lipgloss.Color("#7AA2F7") // CDF curve
	hairlineColor = lipgloss.Color("#F6B784") // threshold marker and legend
)

// Chart styles
var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("250"))

	// The border picks up the marker color while a drag is active.
	draggingBorderStyle = borderStyle.BorderForeground(hairlineColor)

	axisStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	curveStyle    = lipgloss.NewStyle().Foreground(curveColor)
	hairlineStyle = lipgloss.NewStyle().Foreground(hairlineColor).Bold(true)

	emptyStateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// Status bar styles
var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#2B3038"}).
			Background(lipgloss.AdaptiveColor{Light: "#4ECDC4", Dark: "#E1F7FA"})

	// Severity accents for printer notices shown in the status bar.
	noticeWarnStyle  = statusBarStyle.Foreground(lipgloss.AdaptiveColor{Light: "#7C2D12", Dark: "#92400E"}).Bold(true)
	noticeErrorStyle = statusBarStyle.Foreground(lipgloss.AdaptiveColor{Light: "#7F1D1D", Dark: "#9B1C1C"}).Bold(true)
)

// Stats sidebar styles
var (
	sidebarStyle = lipgloss.NewStyle().Padding(0, 1)

	sidebarBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.Border{Left: "│"}).
				BorderForeground(lipgloss.Color("238"))

	sidebarHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("230")).
				MarginLeft(1)

	sidebarSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("245"))

	sidebarKeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	sidebarValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Help screen styles
var (
	helpKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Width(20)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	helpSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(distscopeColor).
				MarginTop(1).
				MarginBottom(1)

	helpContentStyle = lipgloss.NewStyle().
				MarginLeft(2).
				MarginTop(2)
)
