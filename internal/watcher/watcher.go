// Package watcher notifies on changes to dataset files.
package watcher

import (
	"time"

	"github.com/distscope/distscope/internal/observability"
)

// Watcher invokes callbacks when registered files are modified.
type Watcher interface {
	// Watch begins watching the file at the given path.
	//
	// `onChange` is **usually** invoked after the contents of the file may
	// have changed. The path must exist when Watch is called. If the path is
	// a symlink, the target of the symlink is used to detect changes.
	//
	// In some cases, like if the file is modified too quickly, `onChange` may
	// not run because the file's mtime is unchanged. There is no guarantee
	// that `onChange` will be invoked after the final change to a file!
	Watch(path string, onChange func()) error

	// Finish stops the watcher from emitting any more change events.
	Finish()
}

type Params struct {
	Logger *observability.CoreLogger

	// PollingPeriod is how often to poll files for updates.
	//
	// If unset, this uses a default value.
	PollingPeriod time.Duration
}

func New(params Params) Watcher {
	return newWatcher(params)
}
