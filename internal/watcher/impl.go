package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	poller "github.com/radovskyb/watcher"
	"golang.org/x/sync/errgroup"

	"github.com/distscope/distscope/internal/observability"
)

const defaultPollingPeriod = 500 * time.Millisecond

// watcher polls registered files for mtime changes and runs their
// callbacks. The polling delegate is started lazily on the first Watch
// and torn down by Finish.
type watcher struct {
	sync.Mutex
	logger     *observability.CoreLogger
	delegate   *poller.Watcher
	wg         *sync.WaitGroup
	handlers   map[string]func()
	isFinished bool

	pollingPeriod time.Duration
}

func newWatcher(params Params) *watcher {
	if params.Logger == nil {
		params.Logger = observability.NewNoOpLogger()
	}
	if params.PollingPeriod == 0 {
		params.PollingPeriod = defaultPollingPeriod
	}

	return &watcher{
		logger:   params.Logger,
		wg:       &sync.WaitGroup{},
		handlers: make(map[string]func()),

		pollingPeriod: params.PollingPeriod,
	}
}

func (w *watcher) Watch(path string, onChange func()) error {
	w.Lock()
	defer w.Unlock()

	if w.isFinished {
		return fmt.Errorf("watcher: tried to call Watch() after Finish()")
	}

	if w.delegate == nil {
		if err := w.startWatcher(); err != nil {
			return err
		}
	}

	if err := w.delegate.Add(path); err != nil {
		return err
	}
	w.handlers[path] = onChange

	return nil
}

func (w *watcher) Finish() {
	var delegate *poller.Watcher

	w.Lock()
	w.isFinished = true
	delegate = w.delegate
	w.Unlock()

	if delegate != nil {
		delegate.Close()
	}
	w.wg.Wait()
}

func (w *watcher) startWatcher() error {
	if w.delegate != nil {
		return fmt.Errorf("watcher: delegate already started")
	}

	w.delegate = poller.New()
	// The radovskyb library can report a spurious Create for a file that
	// already existed, because Add() races with the polling loop inside
	// Start(). Write and Create are therefore indistinguishable here, and
	// the public interface exposes neither.
	w.delegate.FilterOps(poller.Write, poller.Create)

	grp, ctx := errgroup.WithContext(context.Background())
	w.wg.Add(2)

	grp.Go(func() error {
		defer w.wg.Done()

		w.loopWatchFiles(ctx)

		return nil
	})

	grp.Go(func() error {
		defer w.wg.Done()

		if err := w.delegate.Start(w.pollingPeriod); err != nil {
			return err
		}

		return nil
	})

	// Block here until the delegate's Start() is either looping or has
	// failed. Before that point its Close() is a no-op, so a fast Finish()
	// would hang on the WaitGroup with both goroutines still running.
	watcherStarted := make(chan struct{})
	go func() {
		w.delegate.Wait()
		watcherStarted <- struct{}{}
	}()
	select {
	case <-watcherStarted:
	case <-ctx.Done():
		// Surfaces the Start() error that canceled the context.
		return grp.Wait()
	}

	return nil
}

// loopWatchFiles dispatches polling events until the delegate closes.
//
// The context breaks the loop when the delegate never started, since in
// that case no channel would ever deliver.
func (w *watcher) loopWatchFiles(ctx context.Context) {
	for {
		select {
		case event := <-w.delegate.Event:
			if event.IsDir() {
				continue
			}

			if event.Op != poller.Write && event.Op != poller.Create {
				continue
			}

			w.onChange(event)

		case err := <-w.delegate.Error:
			w.logger.CaptureError(
				fmt.Errorf("watcher: polling error: %v", err))

		case <-w.delegate.Closed:
			return

		case <-ctx.Done():
			return
		}
	}
}

func (w *watcher) onChange(evt poller.Event) {
	w.Lock()
	handler := w.handlers[evt.Path]
	w.Unlock()

	if handler != nil {
		handler()
	}
}
