package watcher

import (
	"context"
	"log/slog"
	"time"

	"diskmap/internal/defrag"
)

type Runner interface {
	Run(ctx context.Context, input string) (*defrag.Result, error)
}

type Config struct {
	DebounceDuration time.Duration
	BufferSize       int
	IgnorePatterns   []string
	Logger           *slog.Logger
}
