// Package watchertest defines a fake Watcher implementation for testing.
package watchertest

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/distscope/distscope/internal/watcher"
)

// FakeWatcher is a Watcher implementation that can be used in tests.
//
// Change events happen only when OnChange is called explicitly, so
// tests control exactly when callbacks fire.
type FakeWatcher struct {
	sync.Mutex

	handlers map[string]func()
}

var _ watcher.Watcher = &FakeWatcher{}

func NewFakeWatcher() *FakeWatcher {
	return &FakeWatcher{
		handlers: make(map[string]func()),
	}
}

// OnChange invokes the change callback registered for the path, if any.
func (w *FakeWatcher) OnChange(path string) {
	w.Lock()
	handler := w.handlers[w.toAbs(path)]
	w.Unlock()

	if handler != nil {
		handler()
	}
}

// IsWatching reports whether a callback is registered for the path.
func (w *FakeWatcher) IsWatching(path string) bool {
	w.Lock()
	defer w.Unlock()

	return w.handlers[w.toAbs(path)] != nil
}

func (w *FakeWatcher) Watch(path string, callback func()) error {
	w.Lock()
	defer w.Unlock()

	// Raise an error for non-existent paths like the real implementation.
	if _, err := os.Stat(path); err != nil {
		return err
	}

	w.handlers[w.toAbs(path)] = callback
	return nil
}

func (w *FakeWatcher) toAbs(path string) string {
	absPath, err := filepath.Abs(path)

	if err != nil {
		panic(err)
	}

	return absPath
}

func (w *FakeWatcher) Finish() {}
