// Package watch reports changes to type source files so a generation pass can
// be rerun.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDelay is how long the watcher waits for a burst of changes to settle
const DefaultDelay = 100 * time.Millisecond

// sourceExtensions are the files a generation pass reads
var sourceExtensions = map[string]bool{
	".java": true,
	".yaml": true,
	".yml":  true,
	".json": true,
}

// Options configures a Watcher
type Options struct {
	Roots   []string // source files or directories
	Exclude []string // directories whose changes are never reported, e.g. the output dir
	Delay   time.Duration
	Logger  *zap.Logger
}

// Watcher monitors source trees and calls back with the changed files
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	roots     []string
	exclude   []string
	logger    *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher. onChange receives the changed paths, sorted, once
// the changes have settled.
func New(opts Options, onChange func([]string)) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	delay := opts.Delay
	if delay <= 0 {
		delay = DefaultDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	exclude := make([]string, 0, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		exclude = append(exclude, filepath.Clean(dir))
	}

	w := &Watcher{
		watcher:   watcher,
		debouncer: NewDebouncer(delay),
		roots:     opts.Roots,
		exclude:   exclude,
		logger:    logger,
		stopChan:  make(chan struct{}),
	}
	w.debouncer.SetCallback(onChange)
	return w, nil
}

// Start registers every directory under the roots and begins watching
func (w *Watcher) Start() error {
	for _, root := range w.roots {
		info, err := os.Stat(root)
		if err != nil {
			return fmt.Errorf("cannot watch %s: %w", root, err)
		}
		if !info.IsDir() {
			// fsnotify watches directories; file events are filtered later
			if err := w.add(filepath.Dir(root)); err != nil {
				return err
			}
			continue
		}
		if err := w.addTree(root); err != nil {
			return err
		}
	}

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Run watches until ctx is done
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		w.Stop()
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

// Stop stops the watcher once any change callback in progress has returned.
// Calling it more than once is safe.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.wg.Wait()
		w.debouncer.Stop()
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", dir, err)
	}
	w.logger.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// loop is the main event loop
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	// new directories are watched as they appear
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				w.logger.Warn("cannot watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}

	if !IsSourceFile(event.Name) {
		return
	}
	if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		w.logger.Debug("source changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
		w.debouncer.Add(event.Name)
	}
}

// shouldIgnore drops hidden entries and anything under an excluded directory
func (w *Watcher) shouldIgnore(path string) bool {
	if strings.HasPrefix(filepath.Base(path), ".") {
		return true
	}

	clean := filepath.Clean(path)
	for _, dir := range w.exclude {
		if clean == dir || strings.HasPrefix(clean, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsSourceFile reports whether a path has a type source extension
func IsSourceFile(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// Debouncer collects paths and hands them to a callback once no new path has
// arrived for the configured duration
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopped  bool
	running  sync.WaitGroup // callbacks in flight
}

// NewDebouncer creates a new debouncer instance
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
	}
}

// Add records a path and restarts the delay
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	d.files[file] = struct{}{}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush triggers the callback with the accumulated paths. The callback runs
// outside the lock so it may take as long as a full pass.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	if d.stopped || len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.running.Add(1)
	d.mutex.Unlock()
	defer d.running.Done()

	sort.Strings(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the callback function
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels any pending flush and waits for a running callback to return
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.stopped = true
	d.mutex.Unlock()

	d.running.Wait()
}
