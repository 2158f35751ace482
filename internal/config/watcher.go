package config

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vyrodovalexey/sprout/internal/observability"
)

// DefaultDebounceDelay coalesces the bursts of events editors emit on save.
const DefaultDebounceDelay = 100 * time.Millisecond

// ConfigCallback is called with each configuration that loaded and
// validated after a change.
type ConfigCallback func(*Config)

// ErrorCallback is called when a reload or the watch itself fails. The
// previous configuration stays in effect.
type ErrorCallback func(error)

// Watcher reloads a configuration file when it, or any file it includes,
// changes. Directories are watched rather than files so that editors
// replacing a file on save are seen.
type Watcher struct {
	path          string
	fsw           *fsnotify.Watcher
	callback      ConfigCallback
	errorCallback ErrorCallback
	logger        observability.Logger
	debounceDelay time.Duration

	mu         sync.RWMutex
	lastConfig *Config
	files      map[string]bool
	dirs       map[string]bool
	generation uint64
	running    bool
	closed     bool

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption is a functional option for configuring the watcher.
type WatcherOption func(*Watcher)

// WithDebounceDelay sets the debounce delay for file changes.
func WithDebounceDelay(delay time.Duration) WatcherOption {
	return func(w *Watcher) {
		if delay > 0 {
			w.debounceDelay = delay
		}
	}
}

// WithLogger sets the logger for the watcher.
func WithLogger(logger observability.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithErrorCallback sets the error callback for the watcher.
func WithErrorCallback(callback ErrorCallback) WatcherOption {
	return func(w *Watcher) {
		w.errorCallback = callback
	}
}

// NewWatcher creates a watcher for the configuration at path.
func NewWatcher(path string, callback ConfigCallback, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:          absPath,
		fsw:           fsw,
		callback:      callback,
		logger:        observability.NopLogger(),
		debounceDelay: DefaultDebounceDelay,
		files:         make(map[string]bool),
		dirs:          make(map[string]bool),
		stopCh:        make(chan struct{}),
		stoppedCh:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the configuration once and begins watching it and its
// includes. The initial load does not invoke the callback.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	cfg, files, err := w.load()
	if err != nil {
		w.setRunning(false)
		return err
	}
	if err := w.track(cfg, files); err != nil {
		w.setRunning(false)
		return err
	}

	w.logger.Info("started watching configuration",
		observability.String("path", w.path),
		observability.Int("files", len(files)),
	)

	go w.watch(ctx)

	return nil
}

// Stop stops watching and releases the file system watcher. It is safe
// to call on a watcher that never started.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.stoppedCh
	}

	return w.fsw.Close()
}

// GetLastConfig returns the last successfully loaded configuration.
func (w *Watcher) GetLastConfig() *Config {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.lastConfig
}

// Files returns the watched configuration files, sorted.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for file := range w.files {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}

// Generation counts successful loads, the initial one included.
func (w *Watcher) Generation() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.generation
}

// ForceReload reloads immediately, bypassing file events.
func (w *Watcher) ForceReload() error {
	cfg, files, err := w.load()
	if err != nil {
		return err
	}
	if err := w.track(cfg, files); err != nil {
		return err
	}

	if w.callback != nil {
		w.callback(cfg)
	}
	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)

	var (
		timer    *time.Timer
		debounce <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped due to context cancellation")
			return

		case <-w.stopCh:
			w.logger.Info("config watcher stopped")
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("config file changed",
				observability.String("path", event.Name),
				observability.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounceDelay)
			} else {
				timer.Reset(w.debounceDelay)
			}
			debounce = timer.C

		case <-debounce:
			debounce = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.fail("config watcher error", err)
		}
	}
}

// relevant reports whether event touches a watched file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[filepath.Clean(event.Name)]
}

func (w *Watcher) reload() {
	w.logger.Info("reloading configuration",
		observability.String("path", w.path),
	)

	cfg, files, err := w.load()
	if err != nil {
		w.fail("configuration reload failed", err)
		return
	}
	if err := w.track(cfg, files); err != nil {
		w.fail("failed to watch configuration files", err)
		return
	}

	w.logger.Info("configuration reloaded successfully",
		observability.Int("routes", len(cfg.Routes)),
	)

	if w.callback != nil {
		w.callback(cfg)
	}
}

func (w *Watcher) fail(msg string, err error) {
	w.logger.Error(msg, observability.Error(err))
	if w.errorCallback != nil {
		w.errorCallback(err)
	}
}

// load reads and validates the configuration, returning every file that
// contributed to it.
func (w *Watcher) load() (*Config, []string, error) {
	loader := NewLoader()
	cfg, err := loader.Load(w.path)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, nil, err
	}
	return cfg, loader.Files(), nil
}

// track records cfg as current and watches the directories of files.
// Directories of files no longer included stay watched; their events are
// filtered out.
func (w *Watcher) track(cfg *Config, files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		dir := filepath.Dir(file)
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}

	w.files = make(map[string]bool, len(files))
	for _, file := range files {
		w.files[file] = true
	}
	w.lastConfig = cfg
	w.generation++
	return nil
}

func (w *Watcher) setRunning(running bool) {
	w.mu.Lock()
	w.running = running
	w.mu.Unlock()
}
