package explorer

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/distscope/distscope/internal/cdf"
	"github.com/distscope/distscope/internal/observability"
)

const (
	envConfigDir = "DISTSCOPE_CONFIG_DIR"
	configName   = "distscope.json"

	// X-axis tick count constraints. Zero means automatic.
	MinXAxisTicks, MaxXAxisTicks = 2, 12

	DefaultMode = string(cdf.ModeLTE)
)

// Config holds the explorer preferences persisted between runs.
type Config struct {
	// Mode is the threshold comparison applied to the dataset:
	// "lt", "lte", "gt" or "gte".
	Mode string `json:"mode"`

	// LogScale maps positions through log space when the data allows.
	LogScale bool `json:"log_scale"`

	// XAxisTicks is the requested value-axis tick count. Zero picks a
	// count from the chart width.
	XAxisTicks int `json:"x_axis_ticks"`

	// SidebarVisible is whether the stats sidebar is shown.
	SidebarVisible bool `json:"sidebar_visible"`
}

// ConfigManager owns the preferences file.
//
// Every setter validates, applies and immediately persists its change.
// Reads take the read lock, so the manager is safe to share.
type ConfigManager struct {
	mu     sync.RWMutex
	path   string
	config Config
	logger *observability.CoreLogger
}

func NewConfigManager(path string, logger *observability.CoreLogger) *ConfigManager {
	cm := &ConfigManager{
		path: path,
		config: Config{
			Mode:           DefaultMode,
			LogScale:       false,
			XAxisTicks:     0,
			SidebarVisible: true,
		},
		logger: logger,
	}
	if err := cm.loadOrCreateConfig(); err != nil {
		cm.logger.Error(fmt.Sprintf("config: load failed: %v", err))
	}

	return cm
}

// loadOrCreateConfig reads the preferences file, writing the defaults
// if there is none yet.
func (cm *ConfigManager) loadOrCreateConfig() error {
	data, err := os.ReadFile(cm.path)

	// First run, persist the defaults.
	if os.IsNotExist(err) {
		if dir := filepath.Dir(cm.path); dir != "" {
			_ = os.MkdirAll(dir, 0o755)
		}
		return cm.save()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &cm.config); err != nil {
		return err
	}

	cm.normalizeConfig()

	return nil
}

// normalizeConfig clamps persisted values into their allowed ranges.
func (cm *ConfigManager) normalizeConfig() {
	cm.config.Mode = string(cdf.ParseMode(cm.config.Mode))

	// Tick counts below the minimum cannot label both endpoints, so
	// they fall back to automatic.
	if cm.config.XAxisTicks < MinXAxisTicks {
		cm.config.XAxisTicks = 0
	}
	if cm.config.XAxisTicks > MaxXAxisTicks {
		cm.config.XAxisTicks = MaxXAxisTicks
	}
}

// save persists the preferences. Callers must hold the lock.
func (cm *ConfigManager) save() error {
	data, err := json.MarshalIndent(cm.config, "", "  ")
	if err != nil {
		return err
	}

	// The rename makes the write atomic.
	tempPath := cm.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp config: %v", err)
	}
	if err := os.Rename(tempPath, cm.path); err != nil {
		return fmt.Errorf("replacing config file: %v", err)
	}

	return nil
}

// Path returns where the preferences live on disk.
func (cm *ConfigManager) Path() string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.path
}

// Snapshot returns the current preferences by value.
func (cm *ConfigManager) Snapshot() Config {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config
}

// Mode returns the threshold comparison mode.
func (cm *ConfigManager) Mode() cdf.Mode {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cdf.Mode(cm.config.Mode)
}

func (cm *ConfigManager) SetMode(mode string) error {
	switch cdf.Mode(mode) {
	case cdf.ModeLT, cdf.ModeLTE, cdf.ModeGT, cdf.ModeGTE:
	default:
		return fmt.Errorf("unknown threshold mode: %q", mode)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.Mode = mode
	return cm.save()
}

// LogScale returns whether the value axis uses logarithmic mapping.
func (cm *ConfigManager) LogScale() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.LogScale
}

func (cm *ConfigManager) SetLogScale(on bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.LogScale = on
	return cm.save()
}

// XAxisTicks returns the requested tick count, 0 meaning automatic.
func (cm *ConfigManager) XAxisTicks() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.XAxisTicks
}

func (cm *ConfigManager) SetXAxisTicks(count int) error {
	if count != 0 && (count < MinXAxisTicks || count > MaxXAxisTicks) {
		return fmt.Errorf(
			"tick count must be 0 (auto) or between %d and %d, got %d",
			MinXAxisTicks, MaxXAxisTicks, count)
	}
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.XAxisTicks = count
	return cm.save()
}

// SidebarVisible returns whether the stats sidebar should be visible.
func (cm *ConfigManager) SidebarVisible() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.config.SidebarVisible
}

// SetSidebarVisible sets the stats sidebar visibility.
func (cm *ConfigManager) SetSidebarVisible(visible bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config.SidebarVisible = visible
	return cm.save()
}

// SetConfig swaps in a whole preference set, clamped and saved.
func (cm *ConfigManager) SetConfig(cfg Config) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.config = cfg
	cm.normalizeConfig()
	return cm.save()
}

// DefaultConfigPath returns the path where the config should be
// stored, with fallbacks to UserConfigDir and a temp dir.
func DefaultConfigPath() string {
	// 1) Honor DISTSCOPE_CONFIG_DIR
	if raw := strings.TrimSpace(os.Getenv(envConfigDir)); raw != "" {
		if p, ok := configPathFromDir(raw); ok {
			return p
		}
	}

	// 2) Default to ~/.config/distscope
	if home, err := os.UserHomeDir(); err == nil {
		if p, ok := configPathFromDir(filepath.Join(home, ".config", "distscope")); ok {
			return p
		}
	}

	// 3) Fallback: OS user config dir (/distscope)
	if base, err := os.UserConfigDir(); err == nil {
		if p, ok := configPathFromDir(filepath.Join(base, "distscope")); ok {
			return p
		}
	}

	// 4) A throwaway temp dir
	if tmp, err := os.MkdirTemp("", "distscope-*"); err == nil {
		return filepath.Join(tmp, configName)
	}

	// Reached only when even MkdirTemp fails.
	return filepath.Join(os.TempDir(), configName)
}

func configPathFromDir(dir string) (string, bool) {
	d := expandAndClean(dir)
	if err := ensureWritableDir(d); err != nil {
		return "", false
	}
	return filepath.Join(d, configName), true
}

func expandAndClean(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return p
	}
	if strings.HasPrefix(p, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			if len(p) == 1 {
				p = home
			} else if p[1] == '/' || p[1] == '\\' {
				p = filepath.Join(home, p[2:])
			}
		}
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	return filepath.Clean(p)
}

// ensureWritableDir checks the directory can be created and written to,
// removing its probe file afterwards.
func ensureWritableDir(dir string) error {
	if dir == "" {
		return errors.New("empty dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".distscope-writecheck-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}
