package explorer

import (
	"fmt"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/distscope/distscope/internal/debounce"
	"github.com/distscope/distscope/internal/observability"
	"github.com/distscope/distscope/internal/threshold"
	"github.com/distscope/distscope/internal/waiting"
	"github.com/distscope/distscope/internal/watcher"
)

const (
	// watcherChanSize buffers change notifications between the watcher
	// goroutine and the UI event loop.
	watcherChanSize = 64

	// reloadDebounceInterval coalesces bursts of file change events
	// into a single reload.
	reloadDebounceInterval = 300 * time.Millisecond

	// retryDelayDuration is how long to wait before retrying a reload
	// that failed, typically because a writer was mid-rewrite.
	retryDelayDuration = 500 * time.Millisecond

	// noticeDuration is how long a status bar notice stays visible.
	noticeDuration = 4 * time.Second
)

// Model is the cumulative distribution explorer for a single dataset.
//
// Implements tea.Model.
// It coordinates the distribution chart, stats sidebar, help screen,
// threshold interaction, and data loading.
type Model struct {
	// Guards the model state that Update and View both touch.
	stateMu sync.RWMutex

	// Configuration and key bindings.
	config *ConfigManager
	keyMap map[string]func(*Model, tea.KeyMsg) tea.Cmd

	// Terminal dimensions.
	width, height int

	// Dataset file path, or "-" for stdin.
	path string

	// Data loading.
	source *DataSource
	watch  bool

	// isLoading controls whether the loading screen is displayed.
	//
	// Defaults to true and is set to false once the initial load
	// completes, successfully or not.
	isLoading     bool
	loadStartTime time.Time

	// loadErr is set when the initial load failed and no dataset is
	// available yet.
	loadErr error

	dataset *Dataset

	// Threshold interaction.
	controller       *threshold.Controller
	initialThreshold *float64

	// UI components.
	chart   *DistChart
	sidebar *StatsSidebar
	help    *HelpModel

	// Keeps at most one sidebar animation command in flight.
	animationMu sync.Mutex
	animating   bool

	// Data file watch and reload management.
	watcherMgr   *WatcherManager
	debouncer    *debounce.Debouncer
	retryDelay   waiting.Delay
	retryPending bool

	// Status bar notices.
	printer      *observability.Printer
	notice       observability.PrinterMessage
	hasNotice    bool
	noticeExpiry waiting.Stopwatch

	// Logger.
	logger *observability.CoreLogger
}

// Params configures a new Model.
type Params struct {
	// Path is the dataset file to explore, or "-" for stdin.
	Path string

	// Source loads and parses datasets. Defaults to a source backed by
	// the OS filesystem.
	Source *DataSource

	// Config persists UI preferences. Defaults to the standard config
	// file location.
	Config *ConfigManager

	// Watch reloads the dataset when the file changes on disk.
	Watch bool

	// InitialThreshold overrides the default midpoint threshold.
	InitialThreshold *float64

	// Watcher overrides the filesystem watcher. Used in tests.
	Watcher watcher.Watcher

	// RetryDelay is the wait before retrying a failed reload.
	// Defaults to retryDelayDuration.
	RetryDelay waiting.Delay

	// NoticeStopwatch controls how long status bar notices stay
	// visible. Defaults to noticeDuration.
	NoticeStopwatch waiting.Stopwatch

	// Printer buffers user-facing messages for the status bar.
	Printer *observability.Printer

	Logger *observability.CoreLogger
}

func NewModel(params Params) *Model {
	logger := params.Logger
	if logger == nil {
		logger = observability.NewNoOpLogger()
	}
	logger.Info(fmt.Sprintf("explorer: creating model for path: %s", params.Path))

	cfg := params.Config
	if cfg == nil {
		cfg = NewConfigManager(DefaultConfigPath(), logger)
	}
	source := params.Source
	if source == nil {
		source = NewDataSource(DataSourceParams{Logger: logger})
	}
	printer := params.Printer
	if printer == nil {
		printer = observability.NewPrinter()
	}
	retryDelay := params.RetryDelay
	if retryDelay == nil {
		retryDelay = waiting.NewDelay(retryDelayDuration)
	}
	noticeExpiry := params.NoticeStopwatch
	if noticeExpiry == nil {
		noticeExpiry = waiting.NewStopwatch(noticeDuration)
	}

	ch := make(chan tea.Msg, watcherChanSize)

	chart := NewDistChart(MinChartWidth, MinChartHeight)
	chart.SetRequestedTicks(cfg.XAxisTicks())

	return &Model{
		config:           cfg,
		keyMap:           buildKeyMap(ExplorerKeyBindings()),
		path:             params.Path,
		source:           source,
		watch:            params.Watch,
		isLoading:        true,
		loadStartTime:    time.Now(),
		initialThreshold: params.InitialThreshold,
		chart:            chart,
		sidebar:          NewStatsSidebar(cfg),
		help:             NewHelp(),
		watcherMgr: NewWatcherManager(WatcherManagerParams{
			Watcher: params.Watcher,
			Chan:    ch,
			Logger:  logger,
		}),
		debouncer:    debounce.NewDebouncer(rate.Every(reloadDebounceInterval), 1, logger),
		retryDelay:   retryDelay,
		printer:      printer,
		noticeExpiry: noticeExpiry,
		logger:       logger,
	}
}

// Init initializes the model and returns the initial command.
//
// Implements tea.Model.Init.
func (m *Model) Init() tea.Cmd {
	m.logger.Debug("explorer: Init called")
	return tea.Batch(
		windowTitleCmd(),
		LoadDataset(m.source, m.path, false),
		m.watcherMgr.WaitForMsg,
	)
}

// Update applies an incoming event to the model.
//
// Implements tea.Model.Update.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer m.logPanic("Update")
	defer timeit(m.logger, "Model.Update")()
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	var cmds []tea.Cmd

	// The help screen swallows input while active.
	if m.help.IsActive() {
		switch msg.(type) {
		case tea.KeyMsg, tea.MouseMsg:
			_, cmd := m.help.Update(msg)
			return m, cmd
		}
	}

	switch t := msg.(type) {
	case tea.KeyMsg:
		if c := m.handleKeyMsg(t); c != nil {
			cmds = append(cmds, c)
		}

	case tea.MouseMsg:
		if c := m.handleMouseMsg(t); c != nil {
			cmds = append(cmds, c)
		}

	case tea.WindowSizeMsg:
		m.handleWindowResize(t)

	default:
		cmds = append(cmds, m.dispatch(msg)...)
	}

	m.drainPrinter()
	return m, tea.Batch(cmds...)
}

// dispatch routes message types to appropriate handlers.
func (m *Model) dispatch(msg tea.Msg) []tea.Cmd {
	switch t := msg.(type) {
	case DatasetLoadedMsg:
		return m.handleDatasetLoaded(t)
	case DatasetErrorMsg:
		return m.handleDatasetError(t)
	case FileChangedMsg:
		return m.handleFileChange()
	case RetryLoadMsg:
		return m.handleRetryLoad()
	case SidebarAnimationMsg:
		return m.handleSidebarAnimation(msg)
	}
	return nil
}

// handleWindowResize handles window resize messages.
func (m *Model) handleWindowResize(msg tea.WindowSizeMsg) {
	m.width, m.height = msg.Width, msg.Height

	m.sidebar.UpdateDimensions(msg.Width)
	m.help.SetSize(msg.Width, msg.Height)

	m.resizeChart(m.computeViewports())
}

// resizeChart fits the chart inside the bordered main panel: two
// columns of border, and two border rows plus the title row.
func (m *Model) resizeChart(layout Layout) {
	w := max(layout.contentWidth-2, MinChartWidth)
	h := max(layout.height-3, MinChartHeight)
	m.chart.Resize(w, h)
}

// View renders the whole screen from the current model state.
//
// Implements tea.Model.View.
func (m *Model) View() string {
	defer m.logPanic("View")

	m.stateMu.RLock()
	defer m.stateMu.RUnlock()

	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.help.IsActive() {
		return m.help.View()
	}

	if m.isLoading {
		return m.renderLoadingScreen()
	}

	return m.renderMainView()
}

// renderMainView renders the chart panel, sidebar, and status bar.
func (m *Model) renderMainView() string {
	layout := m.computeViewports()

	chartPanel := m.renderChartPanel(layout)

	mainView := chartPanel
	if layout.sidebarWidth > 0 {
		sidebarView := m.sidebar.View(layout.height)
		mainView = lipgloss.JoinHorizontal(lipgloss.Top, chartPanel, sidebarView)
	}

	statusBar := m.renderStatusBar()

	fullView := lipgloss.JoinVertical(lipgloss.Left, mainView, statusBar)
	return lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, fullView)
}

// renderChartPanel renders the bordered distribution chart with its
// title row.
func (m *Model) renderChartPanel(layout Layout) string {
	border := borderStyle
	if m.controller != nil && m.controller.State().Dragging {
		border = draggingBorderStyle
	}

	innerWidth := max(layout.contentWidth-2, 1)
	title := titleStyle.MaxWidth(innerWidth).Render(m.chartTitle())

	m.chart.DrawIfNeeded()
	content := lipgloss.JoinVertical(lipgloss.Left, title, m.chart.View())

	return border.
		Width(innerWidth).
		Height(max(layout.height-2, 1)).
		Render(content)
}

// chartTitle names the dataset being explored.
func (m *Model) chartTitle() string {
	name := m.displayPath()
	if m.dataset != nil && m.dataset.Label != "" {
		name += " • " + m.dataset.Label
	}
	return name
}

// displayPath is the dataset path shortened for display.
func (m *Model) displayPath() string {
	if m.path == "-" {
		return "stdin"
	}
	return filepath.Base(m.path)
}

// renderLoadingScreen shows the distscope ASCII art centered on screen.
func (m *Model) renderLoadingScreen() string {
	artStyle := lipgloss.NewStyle().
		Foreground(distscopeColor).
		Bold(true)

	centeredLogo := lipgloss.Place(
		m.width,
		m.height-StatusBarHeight,
		lipgloss.Center,
		lipgloss.Center,
		artStyle.Render(distscopeArt),
	)

	statusBar := m.renderStatusBar()
	return lipgloss.JoinVertical(lipgloss.Left, centeredLogo, statusBar)
}

// renderStatusBar builds the bottom status line.
func (m *Model) renderStatusBar() string {
	statusText := m.buildStatusText()
	helpText := "h: help"

	innerWidth := max(m.width-2*StatusBarPadding, 0)
	spaceForHelp := max(innerWidth-lipgloss.Width(statusText), 0)
	rightAligned := lipgloss.PlaceHorizontal(spaceForHelp, lipgloss.Right, helpText)

	fullStatus := statusText + rightAligned

	return statusBarStyle.
		Width(m.width).
		MaxWidth(m.width).
		Render(fullStatus)
}

// buildStatusText builds the main status text.
func (m *Model) buildStatusText() string {
	if m.hasNotice && !m.noticeExpiry.IsDone() {
		return m.renderNotice()
	}
	if m.isLoading {
		return "Loading data..."
	}
	if m.loadErr != nil {
		return noticeErrorStyle.Render(fmt.Sprintf("error: %v", m.loadErr))
	}
	return m.buildActiveStatus()
}

// renderNotice renders the most recent printer message.
func (m *Model) renderNotice() string {
	switch m.notice.Severity {
	case observability.Error:
		return noticeErrorStyle.Render(m.notice.Text)
	case observability.Warning:
		return noticeWarnStyle.Render(m.notice.Text)
	default:
		return m.notice.Text
	}
}

// buildActiveStatus builds status for active (non-loading) mode.
func (m *Model) buildActiveStatus() string {
	if m.controller == nil {
		return ""
	}

	state := m.controller.State()
	n := m.controller.Distribution().N()

	share := 0.0
	if n > 0 {
		share = float64(state.Count) / float64(n) * 100
	}

	parts := []string{
		fmt.Sprintf("%s %s", state.Mode.Symbol(), FormatValue(state.Value)),
		fmt.Sprintf("kept %d/%d (%s)", state.Count, n, FormatPercent(share)),
	}
	if m.config.LogScale() {
		parts = append(parts, "log")
	}
	if state.Dragging {
		parts = append(parts, "dragging")
	}
	if m.watcherMgr.IsStarted() {
		parts = append(parts, "watching")
	}

	return strings.Join(parts, " • ")
}

// drainPrinter moves queued user-facing messages into the status bar
// notice slot. The most recent message wins.
func (m *Model) drainPrinter() {
	msgs := m.printer.Read()
	if len(msgs) == 0 {
		return
	}
	m.notice = msgs[len(msgs)-1]
	m.hasNotice = true
	m.noticeExpiry.Reset()
}

// Layout represents the computed layout dimensions for the main UI.
type Layout struct {
	contentWidth int
	sidebarWidth int
	height       int
}

// computeViewports returns the chart panel and sidebar dimensions.
func (m *Model) computeViewports() Layout {
	sidebarW := m.sidebar.Width()

	const minMainContentWidth = 20
	if sidebarW >= m.width-minMainContentWidth {
		sidebarW = 0
	}

	contentW := max(m.width-sidebarW, 1)
	contentH := max(m.height-StatusBarHeight, 1)

	return Layout{contentW, sidebarW, contentH}
}

// Cleanup releases resources held by the model.
//
// Safe to call after the program exits, including when quit was
// triggered from the help screen and handleQuit never ran.
func (m *Model) Cleanup() {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()

	if m.watcherMgr != nil {
		m.watcherMgr.Finish()
	}
	if m.debouncer != nil {
		m.debouncer.Stop()
	}
	if m.controller != nil {
		m.controller.Dispose()
	}
}

// logPanic logs panics to the logger before re-panicking.
func (m *Model) logPanic(context string) {
	if r := recover(); r != nil {
		stackTrace := string(debug.Stack())
		m.logger.CaptureError(
			fmt.Errorf("PANIC in %s: %v\nStack trace:\n%s", context, r, stackTrace),
		)
		panic(r)
	}
}

// timeit logs a debug timing line on exit for the given scope.
func timeit(logger *observability.CoreLogger, scope string) func() {
	start := time.Now()
	return func() {
		logger.Debug(fmt.Sprintf("perf: %s took %s", scope, time.Since(start)))
	}
}
