package explorer

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/distscope/distscope/internal/observability"
	"github.com/distscope/distscope/internal/watcher"
)

// WatcherManager manages file watching for live datasets.
type WatcherManager struct {
	watcher     watcher.Watcher
	started     bool
	watcherChan chan tea.Msg
	logger      *observability.CoreLogger
}

// WatcherManagerParams configures a WatcherManager.
type WatcherManagerParams struct {
	// Watcher to use. A nil value creates a polling watcher.
	Watcher watcher.Watcher

	// Chan carries FileChangedMsg into the UI event loop.
	Chan chan tea.Msg

	Logger *observability.CoreLogger
}

func NewWatcherManager(params WatcherManagerParams) *WatcherManager {
	if params.Watcher == nil {
		params.Watcher = watcher.New(watcher.Params{Logger: params.Logger})
	}
	return &WatcherManager{
		watcher:     params.Watcher,
		watcherChan: params.Chan,
		logger:      params.Logger,
	}
}

// Start begins watching the dataset file. Calling it again is a no-op.
func (wm *WatcherManager) Start(path string) error {
	if wm.started {
		return nil
	}

	wm.logger.Debug(fmt.Sprintf("watcher: starting for path: %s", path))

	err := wm.watcher.Watch(path, func() {
		wm.logger.Debug(fmt.Sprintf("watcher: file changed: %s", path))

		select {
		case wm.watcherChan <- FileChangedMsg{}:
			wm.logger.Debug("watcher: change notification delivered")
		default:
			wm.logger.CaptureWarn("watcher: notification channel full, dropping change event")
		}
	})

	if err != nil {
		wm.logger.CaptureError(fmt.Errorf("watcher: watch failed: %v", err))
		return err
	}

	wm.started = true
	wm.logger.Debug(fmt.Sprintf("watcher: now watching %s", path))
	return nil
}

// Finish tears down the underlying watcher.
func (wm *WatcherManager) Finish() {
	if !wm.started {
		return
	}

	wm.logger.Debug("watcher: shutting down")
	wm.watcher.Finish()
	wm.started = false
}

// IsStarted reports whether a file is being watched.
func (wm *WatcherManager) IsStarted() bool {
	return wm.started
}

// WaitForMsg blocks until a change notification arrives.
//
// Runs as a tea command and is rescheduled after each message.
func (wm *WatcherManager) WaitForMsg() tea.Msg {
	wm.logger.Debug("watcher: waiting for change events")
	msg := <-wm.watcherChan
	if msg != nil {
		wm.logger.Debug(fmt.Sprintf("watcher: forwarding %T", msg))
	}
	return msg
}
