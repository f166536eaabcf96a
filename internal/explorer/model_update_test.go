package explorer_test

import (
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/explorer"
	"github.com/distscope/distscope/internal/observability"
	"github.com/distscope/distscope/internal/waitingtest"
)

// newTestModel builds a model with a loaded dataset and a terminal
// size, skipping the real file load.
func newTestModel(t *testing.T, params explorer.Params, values []float64) (*explorer.Model, tea.Model) {
	t.Helper()

	logger := observability.NewNoOpLogger()
	if params.Logger == nil {
		params.Logger = logger
	}
	if params.Config == nil {
		params.Config = explorer.NewConfigManager(
			filepath.Join(t.TempDir(), "config.json"), logger)
	}
	if params.Path == "" {
		params.Path = "metrics.json"
	}

	m := explorer.NewModel(params)
	var model tea.Model = m
	model, _ = model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	if values != nil {
		model, _ = model.Update(explorer.DatasetLoadedMsg{
			Dataset: &explorer.Dataset{Path: params.Path, Values: values},
		})
	}
	return m, model
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitialLoad_SetsMidpointThreshold(t *testing.T) {
	m, _ := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	require.False(t, m.TestIsLoading())

	st := m.TestThresholdState()
	require.Equal(t, cdf.ModeLTE, st.Mode)
	require.InDelta(t, 25.0, st.Value, 1e-9)
	require.Equal(t, 2, st.Count)
	require.False(t, st.Dragging)
}

func TestInitialThresholdOverride(t *testing.T) {
	threshold := 30.0
	m, _ := newTestModel(t,
		explorer.Params{InitialThreshold: &threshold},
		[]float64{10, 20, 30, 40})

	st := m.TestThresholdState()
	require.InDelta(t, 30.0, st.Value, 1e-9)
	require.Equal(t, 3, st.Count)
}

func TestCycleMode_RecountsAndPersists(t *testing.T) {
	threshold := 30.0
	logger := observability.NewNoOpLogger()
	cfg := explorer.NewConfigManager(filepath.Join(t.TempDir(), "config.json"), logger)
	m, model := newTestModel(t,
		explorer.Params{Config: cfg, InitialThreshold: &threshold},
		[]float64{10, 20, 30, 40})

	model, _ = model.Update(keyRune('m'))
	st := m.TestThresholdState()
	require.Equal(t, cdf.ModeGT, st.Mode)
	require.Equal(t, 1, st.Count)
	require.Equal(t, cdf.ModeGT, cfg.Mode())

	model, _ = model.Update(keyRune('m'))
	st = m.TestThresholdState()
	require.Equal(t, cdf.ModeGTE, st.Mode)
	require.Equal(t, 2, st.Count)

	_, _ = model.Update(keyRune('m'))
	st = m.TestThresholdState()
	require.Equal(t, cdf.ModeLT, st.Mode)
	require.Equal(t, 2, st.Count)
}

func TestKeyboardNudges(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	// One percent of the 10..40 axis is 0.3.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.InDelta(t, 24.7, m.TestThresholdState().Value, 1e-9)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.InDelta(t, 25.0, m.TestThresholdState().Value, 1e-9)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	require.InDelta(t, 26.5, m.TestThresholdState().Value, 1e-9)

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	require.InDelta(t, 25.0, m.TestThresholdState().Value, 1e-9)

	// Reset lands back on the midpoint from anywhere.
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyLeft})
	_, _ = model.Update(keyRune('0'))
	require.InDelta(t, 25.0, m.TestThresholdState().Value, 1e-9)
}

func TestNudgeClampsAtAxisEnds(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	for range 120 {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	}
	st := m.TestThresholdState()
	require.InDelta(t, 40.0, st.Value, 1e-9)
	require.Equal(t, 4, st.Count)

	for range 120 {
		model, _ = model.Update(tea.KeyMsg{Type: tea.KeyShiftLeft})
	}
	st = m.TestThresholdState()
	require.InDelta(t, 10.0, st.Value, 1e-9)
	require.Equal(t, 1, st.Count)
}

func TestDragLifecycle(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	rect := m.TestGraphRect()
	rightEdge := int(rect.Left + rect.Width)
	leftEdge := int(rect.Left)

	// Press at the right edge of the plotting area jumps the
	// threshold there and starts the drag.
	model, _ = model.Update(tea.MouseMsg{
		X: rightEdge, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress,
	})
	st := m.TestThresholdState()
	require.True(t, st.Dragging)
	require.InDelta(t, 40.0, st.Value, 1e-9)
	require.Equal(t, 4, st.Count)

	// Each move updates value and count synchronously.
	model, _ = model.Update(tea.MouseMsg{
		X: leftEdge, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion,
	})
	st = m.TestThresholdState()
	require.True(t, st.Dragging)
	require.InDelta(t, 10.0, st.Value, 1e-9)
	require.Equal(t, 1, st.Count)

	// Release anywhere ends the drag and keeps the last value.
	_, _ = model.Update(tea.MouseMsg{
		X: 0, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease,
	})
	st = m.TestThresholdState()
	require.False(t, st.Dragging)
	require.InDelta(t, 10.0, st.Value, 1e-9)
}

func TestDragClampsOutsideRect(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	rect := m.TestGraphRect()

	model, _ = model.Update(tea.MouseMsg{
		X: int(rect.Left) + 2, Y: 10,
		Button: tea.MouseButtonLeft, Action: tea.MouseActionPress,
	})
	require.True(t, m.TestThresholdState().Dragging)

	// Moving left of the plotting area pins the threshold to min.
	model, _ = model.Update(tea.MouseMsg{
		X: 0, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion,
	})
	st := m.TestThresholdState()
	require.InDelta(t, 10.0, st.Value, 1e-9)

	_, _ = model.Update(tea.MouseMsg{
		X: 0, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease,
	})
	require.False(t, m.TestThresholdState().Dragging)
}

func TestMouseMsgTable(t *testing.T) {
	tests := []struct {
		name   string
		events []tea.MouseMsg
		verify func(*testing.T, *explorer.Model)
	}{
		{
			name: "wheel_up_nudges_right",
			events: []tea.MouseMsg{
				{X: 10, Y: 10, Button: tea.MouseButtonWheelUp},
			},
			verify: func(t *testing.T, m *explorer.Model) {
				require.InDelta(t, 25.3, m.TestThresholdState().Value, 1e-9)
			},
		},
		{
			name: "wheel_down_nudges_left",
			events: []tea.MouseMsg{
				{X: 10, Y: 10, Button: tea.MouseButtonWheelDown},
			},
			verify: func(t *testing.T, m *explorer.Model) {
				require.InDelta(t, 24.7, m.TestThresholdState().Value, 1e-9)
			},
		},
		{
			name: "click_over_sidebar_is_ignored",
			events: []tea.MouseMsg{
				{X: 119, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress},
			},
			verify: func(t *testing.T, m *explorer.Model) {
				st := m.TestThresholdState()
				require.False(t, st.Dragging)
				require.InDelta(t, 25.0, st.Value, 1e-9)
			},
		},
		{
			name: "motion_without_drag_is_ignored",
			events: []tea.MouseMsg{
				{X: 30, Y: 10, Button: tea.MouseButtonNone, Action: tea.MouseActionMotion},
			},
			verify: func(t *testing.T, m *explorer.Model) {
				require.InDelta(t, 25.0, m.TestThresholdState().Value, 1e-9)
			},
		},
		{
			name: "release_without_drag_is_harmless",
			events: []tea.MouseMsg{
				{X: 30, Y: 10, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease},
			},
			verify: func(t *testing.T, m *explorer.Model) {
				require.False(t, m.TestThresholdState().Dragging)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

			for _, event := range tc.events {
				model, _ = model.Update(event)
			}

			tc.verify(t, m)
		})
	}
}

func TestReloadKeepsThresholdAndRecounts(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	model, _ = model.Update(explorer.DatasetLoadedMsg{
		Dataset: &explorer.Dataset{
			Path:   "metrics.json",
			Values: []float64{10, 20, 30, 40, 50, 60},
		},
		Reload: true,
	})

	st := m.TestThresholdState()
	require.InDelta(t, 25.0, st.Value, 1e-9)
	require.Equal(t, 2, st.Count)
	require.Len(t, m.TestDataset().Values, 6)
}

func TestReloadClampsThresholdIntoNewRange(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	// Shrink the range so the old threshold falls outside it.
	_, _ = model.Update(explorer.DatasetLoadedMsg{
		Dataset: &explorer.Dataset{
			Path:   "metrics.json",
			Values: []float64{1, 2, 3},
		},
		Reload: true,
	})

	st := m.TestThresholdState()
	require.InDelta(t, 3.0, st.Value, 1e-9)
	require.Equal(t, 3, st.Count)
}

func TestInitialLoadError_ShowsErrorState(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, nil)

	_, cmd := model.Update(explorer.DatasetErrorMsg{Err: errors.New("no such file")})

	require.Nil(t, cmd)
	require.False(t, m.TestIsLoading())
	require.Error(t, m.TestLoadErr())
	require.Contains(t, stripANSI(m.TestStatusText()), "no such file")
}

func TestReloadError_SchedulesSingleRetry(t *testing.T) {
	retryDelay := waitingtest.NewFakeDelay()
	retryDelay.SetZero()
	m, model := newTestModel(t,
		explorer.Params{RetryDelay: retryDelay},
		[]float64{10, 20, 30, 40})

	model, retryCmd := model.Update(explorer.DatasetErrorMsg{
		Err:    errors.New("short read"),
		Reload: true,
	})
	require.NotNil(t, retryCmd)

	// The last good dataset stays up.
	require.Equal(t, 2, m.TestThresholdState().Count)
	require.NotNil(t, m.TestDataset())

	// A second failure while a retry is pending does not stack
	// another retry.
	model, cmd := model.Update(explorer.DatasetErrorMsg{
		Err:    errors.New("short read"),
		Reload: true,
	})
	require.Nil(t, cmd)

	// The scheduled command waits out the delay, then asks to try again.
	require.IsType(t, explorer.RetryLoadMsg{}, retryCmd())

	// The retry itself issues exactly one reload command.
	_, cmd = model.Update(explorer.RetryLoadMsg{})
	require.NotNil(t, cmd)
}

func TestFileChange_ArmsWatcherAndReload(t *testing.T) {
	_, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	_, cmd := model.Update(explorer.FileChangedMsg{})
	require.NotNil(t, cmd)
}

func TestToggleLogScale_Persists(t *testing.T) {
	logger := observability.NewNoOpLogger()
	cfg := explorer.NewConfigManager(filepath.Join(t.TempDir(), "config.json"), logger)
	m, model := newTestModel(t, explorer.Params{Config: cfg}, []float64{10, 20, 30, 40})

	model, _ = model.Update(keyRune('l'))
	require.True(t, cfg.LogScale())

	// The threshold value itself does not move when the scale flips.
	require.InDelta(t, 25.0, m.TestThresholdState().Value, 1e-9)

	_, _ = model.Update(keyRune('l'))
	require.False(t, cfg.LogScale())
}

func TestCycleTicks_ThroughAllStops(t *testing.T) {
	logger := observability.NewNoOpLogger()
	cfg := explorer.NewConfigManager(filepath.Join(t.TempDir(), "config.json"), logger)
	m, model := newTestModel(t, explorer.Params{Config: cfg}, []float64{10, 20, 30, 40})

	model, _ = model.Update(keyRune('t'))
	require.Equal(t, 5, cfg.XAxisTicks())
	ticks := m.TestChart().Ticks()
	require.Len(t, ticks, 5)
	require.InDelta(t, 10.0, ticks[0], 1e-9)
	require.InDelta(t, 40.0, ticks[len(ticks)-1], 1e-9)

	model, _ = model.Update(keyRune('t'))
	require.Equal(t, 9, cfg.XAxisTicks())

	_, _ = model.Update(keyRune('t'))
	require.Equal(t, 0, cfg.XAxisTicks())
}

func TestToggleSidebar(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	require.True(t, m.TestSidebarVisible())

	_, cmd := model.Update(keyRune('s'))
	require.NotNil(t, cmd)
	require.False(t, m.TestSidebarVisible())
}

func TestHelpToggle(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	model, _ = model.Update(keyRune('h'))
	require.True(t, m.TestHelpActive())

	// Keys other than the toggles stay inside the help screen.
	model, _ = model.Update(keyRune('m'))
	require.Equal(t, cdf.ModeLTE, m.TestThresholdState().Mode)

	_, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.TestHelpActive())
}

func TestQuitReturnsQuitCmd(t *testing.T) {
	_, model := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	_, cmd := model.Update(keyRune('q'))
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestStatusBarShowsThreshold(t *testing.T) {
	m, _ := newTestModel(t, explorer.Params{}, []float64{10, 20, 30, 40})

	status := stripANSI(m.TestStatusText())
	require.Contains(t, status, "≤ 25")
	require.Contains(t, status, "kept 2/4 (50.0%)")
}

func TestStatusNotice_ShowsThenExpires(t *testing.T) {
	noticeExpiry := waitingtest.NewFakeStopwatch()
	m, model := newTestModel(t,
		explorer.Params{NoticeStopwatch: noticeExpiry},
		[]float64{10, 20, 30, 40})

	// A manual reload posts a transient notice in the status bar.
	_, _ = model.Update(keyRune('r'))
	require.Contains(t, stripANSI(m.TestStatusText()), "reloading metrics.json")

	// Once the stopwatch runs out, the regular status returns.
	noticeExpiry.SetDone()
	status := stripANSI(m.TestStatusText())
	require.NotContains(t, status, "reloading")
	require.Contains(t, status, "kept 2/4")
}

func TestEmptyDataset_RendersWithoutPanic(t *testing.T) {
	m, model := newTestModel(t, explorer.Params{}, []float64{})

	st := m.TestThresholdState()
	require.Equal(t, 0, st.Count)

	view := model.View()
	require.Contains(t, stripANSI(view), "no data")
}
