package watcher

import (
	"time"

	"github.com/fsnotify/fsnotify"
)

const (
	DefaultDebounceDuration = 500 * time.Millisecond
	DefaultBufferSize       = 16
)

var (
	// editors save either in place or by renaming a temp file over the target
	WatchedEvents = fsnotify.Create | fsnotify.Write | fsnotify.Rename

	IgnoredPatterns = []string{
		":Zone.Identifier",
		".tmp",
		"~",
		".swp",
	}
)
