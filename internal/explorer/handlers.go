package explorer

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/threshold"
)

// handleKeyMsg processes keyboard input through the key binding map.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	if handler, ok := m.keyMap[normalizeKey(msg.String())]; ok && handler != nil {
		return handler(m, msg)
	}
	return nil
}

func (m *Model) handleToggleHelp(msg tea.KeyMsg) tea.Cmd {
	m.help.Toggle()
	return nil
}

func (m *Model) handleQuit(msg tea.KeyMsg) tea.Cmd {
	m.logger.Debug("explorer: quit requested")
	if m.watcherMgr.IsStarted() {
		m.logger.Debug("explorer: finishing watcher on quit")
		m.watcherMgr.Finish()
	}
	m.debouncer.Stop()
	if m.controller != nil {
		m.controller.Dispose()
	}
	return tea.Quit
}

func (m *Model) handleReload(msg tea.KeyMsg) tea.Cmd {
	m.logger.Debug("explorer: manual reload requested")
	m.printer.Infof("reloading %s", m.displayPath())
	return LoadDataset(m.source, m.path, true)
}

func (m *Model) handleCycleMode(msg tea.KeyMsg) tea.Cmd {
	if m.controller == nil {
		return nil
	}

	mode := m.controller.State().Mode.Next()
	m.controller.SetMode(mode)

	if err := m.config.SetMode(string(mode)); err != nil {
		m.logger.Error(fmt.Sprintf("explorer: failed to save threshold mode: %v", err))
	}
	return nil
}

func (m *Model) handleNudgeLeft(msg tea.KeyMsg) tea.Cmd {
	if m.controller != nil {
		m.controller.Nudge(-1)
	}
	return nil
}

func (m *Model) handleNudgeRight(msg tea.KeyMsg) tea.Cmd {
	if m.controller != nil {
		m.controller.Nudge(1)
	}
	return nil
}

func (m *Model) handleBigNudgeLeft(msg tea.KeyMsg) tea.Cmd {
	if m.controller != nil {
		m.controller.Nudge(-5)
	}
	return nil
}

func (m *Model) handleBigNudgeRight(msg tea.KeyMsg) tea.Cmd {
	if m.controller != nil {
		m.controller.Nudge(5)
	}
	return nil
}

func (m *Model) handleResetThreshold(msg tea.KeyMsg) tea.Cmd {
	if m.controller == nil {
		return nil
	}
	lo, hi := m.controller.Bounds()
	m.controller.SetThreshold((lo + hi) / 2)
	return nil
}

func (m *Model) handleToggleLogScale(msg tea.KeyMsg) tea.Cmd {
	on := !m.config.LogScale()

	if err := m.config.SetLogScale(on); err != nil {
		m.logger.Error(fmt.Sprintf("explorer: failed to save log scale: %v", err))
	}

	if m.controller != nil {
		m.controller.SetLogScale(on)
		if lo, _ := m.controller.Bounds(); on && lo <= 0 {
			m.printer.Warnf("log scale needs positive values; axis stays linear")
		}
		m.sidebar.SetThreshold(m.controller.State(), on)
	}
	m.chart.SetLogScale(on)
	return nil
}

func (m *Model) handleCycleTicks(msg tea.KeyMsg) tea.Cmd {
	var next int
	switch m.config.XAxisTicks() {
	case 0:
		next = 5
	case 5:
		next = 9
	default:
		next = 0
	}

	if err := m.config.SetXAxisTicks(next); err != nil {
		m.logger.Error(fmt.Sprintf("explorer: failed to save tick count: %v", err))
	}
	m.chart.SetRequestedTicks(next)
	return nil
}

// beginAnimating attempts to acquire the animation token. Returns
// false if an animation is already running.
func (m *Model) beginAnimating() bool {
	m.animationMu.Lock()
	defer m.animationMu.Unlock()
	if m.animating {
		return false
	}
	m.animating = true
	return true
}

func (m *Model) endAnimating() {
	m.animationMu.Lock()
	m.animating = false
	m.animationMu.Unlock()
}

func (m *Model) handleToggleSidebar(msg tea.KeyMsg) tea.Cmd {
	if !m.beginAnimating() {
		return nil
	}

	visible := !m.sidebar.IsVisible()

	if err := m.config.SetSidebarVisible(visible); err != nil {
		m.logger.Error(fmt.Sprintf("explorer: failed to save sidebar state: %v", err))
	}

	m.sidebar.UpdateDimensions(m.width)
	m.sidebar.Toggle()

	m.resizeChart(m.computeViewports())

	return m.sidebar.animationCmd()
}

// handleSidebarAnimation advances the sidebar slide one frame and
// keeps the chart sized to the remaining space.
func (m *Model) handleSidebarAnimation(msg tea.Msg) []tea.Cmd {
	_, cmd := m.sidebar.Update(msg)

	m.resizeChart(m.computeViewports())

	if m.sidebar.IsAnimating() && cmd != nil {
		return []tea.Cmd{cmd}
	}

	m.endAnimating()
	return nil
}

// handleMouseMsg processes mouse events.
func (m *Model) handleMouseMsg(msg tea.MouseMsg) tea.Cmd {
	mouse := tea.MouseEvent(msg)

	// Pointer-up ends a drag wherever the pointer is, including over
	// the sidebar or outside the chart panel.
	if mouse.Action == tea.MouseActionRelease {
		if m.controller != nil {
			m.controller.Stop()
		}
		return nil
	}

	if m.controller == nil {
		return nil
	}

	layout := m.computeViewports()
	overChart := msg.X < layout.contentWidth

	switch {
	case mouse.IsWheel():
		if !overChart {
			return nil
		}
		switch mouse.Button {
		case tea.MouseButtonWheelUp:
			m.controller.Nudge(1)
		case tea.MouseButtonWheelDown:
			m.controller.Nudge(-1)
		}

	case mouse.Button == tea.MouseButtonLeft && mouse.Action == tea.MouseActionPress:
		if !overChart {
			return nil
		}
		p := m.pointerAt(msg.X)
		if sub := m.controller.Start(p); sub != nil {
			m.controller.HandleMove(p)
		}

	case mouse.Action == tea.MouseActionMotion:
		// Only meaningful mid-drag; the controller ignores it when
		// idle.
		m.controller.HandleMove(m.pointerAt(msg.X))
	}

	return nil
}

// pointerAt converts a terminal column into a pointer event relative
// to the chart's plotting rectangle. The chart panel sits at the left
// edge of the screen.
func (m *Model) pointerAt(x int) threshold.Pointer {
	return threshold.Pointer{
		X:    float64(x),
		Rect: m.chart.GraphRect(0),
	}
}

// handleDatasetLoaded installs a freshly loaded dataset.
func (m *Model) handleDatasetLoaded(msg DatasetLoadedMsg) []tea.Cmd {
	defer timeit(m.logger, "Model.handleDatasetLoaded")()

	m.dataset = msg.Dataset
	m.isLoading = false
	m.loadErr = nil
	m.retryPending = false

	if m.controller == nil {
		m.controller = threshold.NewController(threshold.Config{
			Values:           msg.Dataset.Values,
			Mode:             m.config.Mode(),
			LogScale:         m.config.LogScale(),
			InitialThreshold: m.initialThreshold,
			OnChange:         m.onThresholdChange,
		})
	} else {
		m.controller.SetDistribution(cdf.Build(msg.Dataset.Values))
	}

	m.refreshDataViews()

	if msg.Reload {
		m.printer.Infof("reloaded %s (%d points)", m.displayPath(), len(msg.Dataset.Values))
		return nil
	}

	m.logger.Info(fmt.Sprintf("explorer: initial load completed in %s",
		time.Since(m.loadStartTime).Round(time.Millisecond)))

	if m.watch && m.path != "-" && !m.watcherMgr.IsStarted() {
		if err := m.watcherMgr.Start(m.path); err != nil {
			m.logger.CaptureError(fmt.Errorf("explorer: error starting watcher: %v", err))
			m.printer.Errorf("watch failed: %v", err)
		} else {
			m.logger.Info("explorer: watcher started successfully")
		}
	}
	return nil
}

// refreshDataViews pushes the current dataset and threshold into the
// chart and sidebar.
func (m *Model) refreshDataViews() {
	dist := m.controller.Distribution()
	state := m.controller.State()

	m.chart.SetDataset(dist, m.config.LogScale())
	m.chart.SetThreshold(state.Value, state.Count, state.Mode)
	m.sidebar.SetDataset(m.dataset, cdf.Summary(dist.Sorted))
	m.sidebar.SetThreshold(state, m.config.LogScale())
}

// onThresholdChange keeps the chart and sidebar in sync with the
// controller. Invoked synchronously from every threshold mutation.
func (m *Model) onThresholdChange(value float64, count int) {
	state := m.controller.State()
	m.chart.SetThreshold(state.Value, state.Count, state.Mode)
	m.sidebar.SetThreshold(state, m.config.LogScale())
}

// handleDatasetError handles a failed load.
func (m *Model) handleDatasetError(msg DatasetErrorMsg) []tea.Cmd {
	m.logger.CaptureError(fmt.Errorf("explorer: dataset load failed: %v", msg.Err))

	if !msg.Reload {
		m.isLoading = false
		m.loadErr = msg.Err
		return nil
	}

	// A reload can catch a writer mid-rewrite. Keep the last good
	// dataset, surface the error, and retry once after a short delay.
	// Rate-limited: a file that stays broken across many writes should
	// not flood the status bar.
	m.printer.AtMostEvery(5 * time.Second).Errorf("reload failed: %v", msg.Err)
	if m.retryPending {
		return nil
	}
	m.retryPending = true
	return []tea.Cmd{RetryLoad(m.retryDelay)}
}

// handleRetryLoad retries a reload that previously failed.
func (m *Model) handleRetryLoad() []tea.Cmd {
	if !m.retryPending {
		return nil
	}
	m.retryPending = false
	m.logger.Debug("explorer: retrying dataset load")
	return []tea.Cmd{LoadDataset(m.source, m.path, true)}
}

// handleFileChange coalesces change notifications into a reload.
func (m *Model) handleFileChange() []tea.Cmd {
	m.logger.Debug("explorer: processing FileChangedMsg")

	cmds := []tea.Cmd{m.watcherMgr.WaitForMsg}

	m.debouncer.SetNeedsDebounce()
	m.debouncer.Debounce(func() {
		cmds = append(cmds, LoadDataset(m.source, m.path, true))
	})

	return cmds
}
