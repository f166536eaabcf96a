package explorer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/explorer"
	"github.com/distscope/distscope/internal/observability"
)

func TestConfigManager_DefaultsWhenMissing(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "distscope.json")
	cfg := explorer.NewConfigManager(path, observability.NewNoOpLogger())

	require.Equal(t, cdf.ModeLTE, cfg.Mode())
	require.False(t, cfg.LogScale())
	require.Equal(t, 0, cfg.XAxisTicks())
	require.True(t, cfg.SidebarVisible())

	// The defaults are written out so the next run starts from a file.
	_, err := os.Stat(path)
	require.NoError(t, err)
}

func TestConfigManager_PersistsAcrossInstances(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "distscope.json")
	logger := observability.NewNoOpLogger()

	cfg := explorer.NewConfigManager(path, logger)
	require.NoError(t, cfg.SetMode("gt"))
	require.NoError(t, cfg.SetLogScale(true))
	require.NoError(t, cfg.SetXAxisTicks(9))
	require.NoError(t, cfg.SetSidebarVisible(false))

	reloaded := explorer.NewConfigManager(path, logger)
	require.Equal(t, cdf.ModeGT, reloaded.Mode())
	require.True(t, reloaded.LogScale())
	require.Equal(t, 9, reloaded.XAxisTicks())
	require.False(t, reloaded.SidebarVisible())
}

func TestConfigManager_RejectsInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "distscope.json")
	cfg := explorer.NewConfigManager(path, observability.NewNoOpLogger())

	require.Error(t, cfg.SetMode("approximately"))

	// A single tick cannot label both endpoints.
	require.Error(t, cfg.SetXAxisTicks(1))
	require.Error(t, cfg.SetXAxisTicks(explorer.MaxXAxisTicks+1))
	require.Error(t, cfg.SetXAxisTicks(-3))

	require.NoError(t, cfg.SetXAxisTicks(0))
	require.NoError(t, cfg.SetXAxisTicks(explorer.MaxXAxisTicks))
}

func TestConfigManager_NormalizesHandEditedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "distscope.json")
	content := `{"mode":"banana","log_scale":true,"x_axis_ticks":99,"sidebar_visible":false}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := explorer.NewConfigManager(path, observability.NewNoOpLogger())
	require.Equal(t, cdf.ModeLTE, cfg.Mode())
	require.True(t, cfg.LogScale())
	require.Equal(t, explorer.MaxXAxisTicks, cfg.XAxisTicks())
	require.False(t, cfg.SidebarVisible())
}

func TestConfigManager_SurvivesCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "distscope.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	cfg := explorer.NewConfigManager(path, observability.NewNoOpLogger())
	require.Equal(t, cdf.ModeLTE, cfg.Mode())
	require.Equal(t, 0, cfg.XAxisTicks())
}
