// Package watch re-runs a build whenever one of a fixed set of files changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the bursts of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// ErrNoFiles indicates Watch was called without files to watch.
var ErrNoFiles = errors.New("no files to watch")

// BuildFunc produces the output from the watched inputs.
type BuildFunc func(ctx context.Context) error

// Options configures Watch.
type Options struct {
	Debounce time.Duration // zero uses DefaultDebounce
	Logger   *slog.Logger  // nil discards

	// OnBuild, if non-nil, is called after every build with its result.
	OnBuild func(err error)
}

// Watch runs build once, then again each time one of files is written or
// created, until ctx is cancelled. Build errors are
// logged and reported to OnBuild; they do not stop the watcher.
//
// The parent directory of each file is watched rather than the file itself
// so that editors which save by renaming a temporary file are seen.
func Watch(ctx context.Context, files []string, build BuildFunc, opts Options) error {
	if len(files) == 0 {
		return ErrNoFiles
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	targets := make(map[string]bool, len(files))
	dirs := make(map[string]bool, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()

	for dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	run := func() {
		err := build(ctx)
		if err != nil && ctx.Err() == nil {
			logger.Error("watch: build failed", slog.String("error", err.Error()))
		} else if err == nil {
			logger.Info("watch: rebuilt")
		}
		if opts.OnBuild != nil {
			opts.OnBuild(err)
		}
	}

	run()
	logger.Info("watch: started", slog.Int("files", len(targets)))

	var timer *time.Timer
	var timerCh <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(opts.Debounce)
			timerCh = timer.C
			return
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(opts.Debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watch: stopped")
			return nil

		case <-timerCh:
			run()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			logger.Debug("watch: change", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: error", slog.String("error", watchErr.Error()))
		}
	}
}
