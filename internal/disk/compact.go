package disk

import (
	"io"
	"log/slog"
	"time"

	"diskmap/internal/disk/metrics"
)

type Compactor struct {
	metrics *metrics.CompactionMetrics
	logger  *slog.Logger
}

type CompactorConfig struct {
	Metrics *metrics.CompactionMetrics
	Logger  *slog.Logger
}

func NewCompactor(cfg CompactorConfig) *Compactor {
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewCompactionMetrics()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Compactor{
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
}

func (c *Compactor) Metrics() *metrics.CompactionMetrics {
	return c.metrics
}

// Compact moves file blocks from the end of the map into the leftmost free
// blocks, one block at a time, until every file block precedes every free
// block. The map is modified in place and returned.
func (c *Compactor) Compact(m Map) Map {
	m, _ = c.CompactWithSwaps(m)
	return m
}

// CompactWithSwaps is Compact that also reports how many blocks were moved.
func (c *Compactor) CompactWithSwaps(m Map) (Map, int) {
	start := time.Now()
	swaps := 0

	i, okFree := nextFree(m, 0)
	j, okFile := prevFile(m, len(m)-1)
	for okFree && okFile && i < j {
		m[i], m[j] = m[j], m[i]
		swaps++
		c.metrics.RecordSwap()

		// i now holds a file block and j a free one, so both scans succeed
		// while the pointers have not crossed.
		i, okFree = nextFree(m, i)
		j, okFile = prevFile(m, j)
	}

	c.metrics.RecordRun(len(m), time.Since(start))
	c.logger.Debug("map compacted",
		slog.Int("blocks", len(m)),
		slog.Int("swaps", swaps),
	)
	return m, swaps
}

// Compact runs a compactor without metrics or logging.
func Compact(m Map) Map {
	return NewCompactor(CompactorConfig{}).Compact(m)
}

// IsCompacted reports whether no free block precedes a file block.
func IsCompacted(m Map) bool {
	seenFree := false
	for _, b := range m {
		if b.IsFree() {
			seenFree = true
			continue
		}
		if seenFree {
			return false
		}
	}
	return true
}

func nextFree(m Map, from int) (int, bool) {
	for idx := from; idx < len(m); idx++ {
		if m[idx].IsFree() {
			return idx, true
		}
	}
	return len(m), false
}

func prevFile(m Map, from int) (int, bool) {
	for idx := from; idx >= 0; idx-- {
		if !m[idx].IsFree() {
			return idx, true
		}
	}
	return -1, false
}
