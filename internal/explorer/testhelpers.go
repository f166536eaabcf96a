// Test<API> provides a controlled interface for testing internal model state.
// These methods are only exposed for tests in the explorer_test package.
package explorer

import (
	"github.com/distscope/distscope/internal/threshold"
)

// TestThresholdState returns the current threshold snapshot
func (m *Model) TestThresholdState() threshold.State {
	return m.controller.State()
}

// TestController returns the threshold controller for testing
func (m *Model) TestController() *threshold.Controller {
	return m.controller
}

func (m *Model) TestDataset() *Dataset {
	return m.dataset
}

func (m *Model) TestIsLoading() bool {
	return m.isLoading
}

// TestLoadErr returns the startup load error, if any
func (m *Model) TestLoadErr() error {
	return m.loadErr
}

// TestSidebarVisible returns true if the stats sidebar is visible
func (m *Model) TestSidebarVisible() bool {
	return m.sidebar.IsVisible()
}

// TestChart returns the distribution chart for testing
func (m *Model) TestChart() *DistChart {
	return m.chart
}

// TestStatusText exposes the rendered status line for assertions.
func (m *Model) TestStatusText() string {
	return m.buildStatusText()
}

// TestHelpActive returns true if the help screen is showing
func (m *Model) TestHelpActive() bool {
	return m.help.IsActive()
}

// TestGraphRect exposes the plotting rectangle used for drag mapping.
func (m *Model) TestGraphRect() threshold.Rect {
	return m.chart.GraphRect(0)
}

// TestForceExpand forces the sidebar to expanded state without animation
func (s *StatsSidebar) TestForceExpand() {
	s.animState.state = SidebarExpanded
	s.animState.currentWidth = s.animState.expandedWidth
	s.animState.targetWidth = s.animState.expandedWidth
}

// TestThresholdPixel exposes the hairline column for tests.
// This keeps production APIs clean while allowing focused assertions.
func (c *DistChart) TestThresholdPixel() int {
	return c.thresholdPixel()
}
