// Package watcher tells the viewer when its dataset file was edited.
//
// Editors save in different ways (in-place writes, write-to-temp then
// rename), so the watcher observes the file's directory with fsnotify and
// filters by name. Where notifications are unavailable, or when
// ROADMAP_FORCE_POLL is set, it compares the file's mtime and size on a
// ticker instead. Bursts of events are coalesced by a Debouncer so one save
// causes one reload.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vanderheijden86/roadmap/pkg/debug"
)

// ForcePollEnv selects polling when set to a true value.
const ForcePollEnv = "ROADMAP_FORCE_POLL"

// DefaultPollInterval is how often a polling watcher stats the dataset.
const DefaultPollInterval = 2 * time.Second

var (
	// ErrFileRemoved is reported once the dataset disappears. The viewer
	// keeps showing the last loaded data.
	ErrFileRemoved = errors.New("dataset file was removed")
	// ErrAlreadyStarted is returned by Start on a running watcher.
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period after the last event before a change
// is reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollEvery = d }
}

// WithOnChange registers a callback run on every reported change, before
// Changed is signalled.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// WithOnError registers a callback for watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) { w.onError = fn }
}

// WithForcePoll skips fsnotify.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// fileState is what polling compares between ticks.
type fileState struct {
	mtime time.Time
	size  int64
}

func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, err
	}
	return fileState{mtime: info.ModTime(), size: info.Size()}, nil
}

func (s fileState) exists() bool { return !s.mtime.IsZero() }

func (s fileState) differs(next fileState) bool {
	return next.mtime.After(s.mtime) || next.size != s.size
}

// Watcher reports edits to one dataset file.
type Watcher struct {
	path      string
	debounce  time.Duration
	pollEvery time.Duration
	onChange  func()
	onError   func(error)
	forcePoll bool

	debouncer *Debouncer
	changed   chan struct{}

	mu      sync.Mutex
	running bool
	polling bool
	last    fileState
	cancel  context.CancelFunc
	fsw     *fsnotify.Watcher
	wg      sync.WaitGroup
}

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		onChange: func() {},
		onError:  func(error) {},
		changed:  make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.pollEvery <= 0 {
		w.pollEvery = DefaultPollInterval
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching. A dataset that does not exist yet is fine: its
// creation counts as a change.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return ErrAlreadyStarted
	}

	state, err := statFile(w.path)
	switch {
	case err == nil, os.IsNotExist(err):
		w.last = state
	default:
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	w.polling = !w.startNotify(ctx)
	if w.polling {
		w.wg.Add(1)
		go w.poll(ctx)
	}
	w.running = true
	debug.Log("watcher: watching %s (polling=%v)", w.path, w.polling)
	return nil
}

// startNotify subscribes to the dataset's directory. It reports false when
// polling has to be used instead.
func (w *Watcher) startNotify(ctx context.Context) bool {
	if w.forcePoll {
		return false
	}
	if force, _ := strconv.ParseBool(os.Getenv(ForcePollEnv)); force {
		return false
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		debug.Log("watcher: fsnotify unavailable: %v", err)
		return false
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		debug.Log("watcher: cannot watch %s: %v", filepath.Dir(w.path), err)
		fsw.Close()
		return false
	}
	w.fsw = fsw
	w.wg.Add(1)
	go w.notify(ctx, fsw)
	return true
}

// Stop ends watching and waits for the watch goroutine. Changed stays open
// so a blocked receiver is not woken by a close. A stopped watcher may be
// started again.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.cancel()
	fsw := w.fsw
	w.fsw = nil
	w.mu.Unlock()

	if fsw != nil {
		fsw.Close()
	}
	w.wg.Wait()
	w.debouncer.Cancel()
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Running reports whether Start succeeded and Stop has not been called.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Changed receives once per debounced change. Signals do not queue: a
// change that arrives while one is pending is merged into it.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changed
}

// Path returns the absolute dataset path.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) notify(ctx context.Context, fsw *fsnotify.Watcher) {
	defer w.wg.Done()
	name := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != name {
				continue
			}
			if ev.Has(fsnotify.Remove) {
				w.onError(ErrFileRemoved)
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.debouncer.Trigger(w.report)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) poll(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.checkFile()
		}
	}
}

// checkFile compares the dataset against the last seen state.
func (w *Watcher) checkFile() {
	next, err := statFile(w.path)
	w.mu.Lock()
	prev := w.last
	if err == nil || os.IsNotExist(err) {
		w.last = next
	}
	w.mu.Unlock()

	switch {
	case os.IsNotExist(err):
		if prev.exists() {
			w.onError(ErrFileRemoved)
		}
	case err != nil:
		w.onError(err)
	case prev.differs(next):
		w.debouncer.Trigger(w.report)
	}
}

// report runs the change callback and signals Changed, unless the watcher
// was stopped while the debounce timer was pending.
func (w *Watcher) report() {
	if !w.Running() {
		return
	}
	debug.Log("watcher: %s changed", w.path)
	w.onChange()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}
