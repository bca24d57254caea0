package watcher

import (
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatcherMetrics struct {
	eventsProcessed int64
	createEvents    int64
	writeEvents     int64
	renameEvents    int64
	runs            int64
	errors          int64
	filesWatched    int64
	lastEventTime   atomic.Value
}

func NewWatcherMetrics() *WatcherMetrics {
	return &WatcherMetrics{}
}

func (m *WatcherMetrics) RecordEvent(op fsnotify.Op) {
	atomic.AddInt64(&m.eventsProcessed, 1)
	if op.Has(fsnotify.Create) {
		atomic.AddInt64(&m.createEvents, 1)
	}
	if op.Has(fsnotify.Write) {
		atomic.AddInt64(&m.writeEvents, 1)
	}
	if op.Has(fsnotify.Rename) {
		atomic.AddInt64(&m.renameEvents, 1)
	}
	m.lastEventTime.Store(time.Now())
}

func (m *WatcherMetrics) RecordRun() {
	atomic.AddInt64(&m.runs, 1)
}

func (m *WatcherMetrics) RecordError() {
	atomic.AddInt64(&m.errors, 1)
}

func (m *WatcherMetrics) RecordFileAdded() {
	atomic.AddInt64(&m.filesWatched, 1)
}

func (m *WatcherMetrics) GetStats() map[string]interface{} {
	last, _ := m.lastEventTime.Load().(time.Time)
	return map[string]interface{}{
		"events_processed": atomic.LoadInt64(&m.eventsProcessed),
		"create_events":    atomic.LoadInt64(&m.createEvents),
		"write_events":     atomic.LoadInt64(&m.writeEvents),
		"rename_events":    atomic.LoadInt64(&m.renameEvents),
		"runs":             atomic.LoadInt64(&m.runs),
		"errors":           atomic.LoadInt64(&m.errors),
		"files_watched":    atomic.LoadInt64(&m.filesWatched),
		"last_event_time":  last,
	}
}
