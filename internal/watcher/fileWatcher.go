package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"diskmap/internal/defrag"
	"diskmap/internal/disk"
	"diskmap/internal/util/logger/sl"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher re-runs the defragmentation of a disk map file every time the
// file is written.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	runner    Runner
	results   chan *defrag.Result
	errors    chan error
	config    Config
	logger    *slog.Logger
	debouncer *Debouncer
	metrics   *WatcherMetrics
	targets   map[string]struct{}

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

func NewFileWatcher(runner Runner, config Config) (*FileWatcher, error) {
	if config.DebounceDuration == 0 {
		config.DebounceDuration = DefaultDebounceDuration
	}
	if config.BufferSize == 0 {
		config.BufferSize = DefaultBufferSize
	}
	if config.IgnorePatterns == nil {
		config.IgnorePatterns = IgnoredPatterns
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	fw := &FileWatcher{
		watcher:   watcher,
		runner:    runner,
		results:   make(chan *defrag.Result, config.BufferSize),
		errors:    make(chan error, config.BufferSize),
		config:    config,
		logger:    config.Logger.With(slog.String("component", "watcher")),
		debouncer: NewDebouncer(config.DebounceDuration),
		metrics:   NewWatcherMetrics(),
		targets:   make(map[string]struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}

	fw.wg.Add(1)
	go fw.run()

	return fw, nil
}

// Watch starts following a disk map file. The parent directory is watched
// so that saves which replace the file are seen too.
func (fw *FileWatcher) Watch(path string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.closed {
		return ErrWatcherClosed
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidPath, path)
	}

	if _, ok := fw.targets[abs]; ok {
		return ErrPathAlreadyWatched
	}

	if err := fw.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory of %s: %w", path, err)
	}

	fw.targets[abs] = struct{}{}
	fw.metrics.RecordFileAdded()
	fw.logger.Info("watching disk map", slog.String("path", abs))
	return nil
}

func (fw *FileWatcher) run() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if fw.shouldProcessEvent(event) {
				fw.processEvent(event)
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.handleError(err)
		}
	}
}

func (fw *FileWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&WatchedEvents == 0 {
		return false
	}

	for _, pattern := range fw.config.IgnorePatterns {
		if strings.Contains(event.Name, pattern) {
			fw.logger.Debug("ignoring file",
				slog.String("path", event.Name),
				slog.String("pattern", pattern),
			)
			return false
		}
	}

	fw.mu.RLock()
	defer fw.mu.RUnlock()
	_, ok := fw.targets[filepath.Clean(event.Name)]
	return ok
}

func (fw *FileWatcher) processEvent(event fsnotify.Event) {
	fw.metrics.RecordEvent(event.Op)

	path := filepath.Clean(event.Name)
	fw.debouncer.Debounce(path, func() {
		if err := fw.runFile(path); err != nil {
			fw.handleError(err)
		}
	})
}

func (fw *FileWatcher) runFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	res, err := fw.runner.Run(fw.ctx, disk.TrimLineEnding(string(data)))
	if err != nil {
		return fmt.Errorf("failed to process %s: %w", path, err)
	}
	fw.metrics.RecordRun()

	select {
	case fw.results <- res:
	case <-fw.ctx.Done():
	}
	return nil
}

func (fw *FileWatcher) handleError(err error) {
	fw.metrics.RecordError()

	select {
	case fw.errors <- err:
	default:
		fw.logger.Warn("error buffer full, dropping error", sl.Err(err))
	}
}

// Close stops watching and returns once no run started by the watcher is
// still in progress.
func (fw *FileWatcher) Close() error {
	fw.mu.Lock()
	if fw.closed {
		fw.mu.Unlock()
		return nil
	}
	fw.closed = true
	fw.mu.Unlock()

	fw.cancel()
	fw.debouncer.Stop()
	fw.wg.Wait()

	if err := fw.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	return nil
}

// Results delivers one result per processed write. The channel is never
// closed; stop reading when your own context is done.
func (fw *FileWatcher) Results() <-chan *defrag.Result {
	return fw.results
}

func (fw *FileWatcher) Errors() <-chan error {
	return fw.errors
}

func (fw *FileWatcher) Metrics() *WatcherMetrics {
	return fw.metrics
}
