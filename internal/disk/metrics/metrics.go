package metrics

import (
	"sync/atomic"
	"time"
)

type CompactionMetrics struct {
	runs          int64
	swaps         int64
	blocksScanned int64
	lastDuration  int64
	lastCompacted atomic.Value
}

func NewCompactionMetrics() *CompactionMetrics {
	return &CompactionMetrics{}
}

func (m *CompactionMetrics) RecordRun(blocks int, duration time.Duration) {
	atomic.AddInt64(&m.runs, 1)
	atomic.AddInt64(&m.blocksScanned, int64(blocks))
	atomic.StoreInt64(&m.lastDuration, int64(duration))
	m.lastCompacted.Store(time.Now())
}

func (m *CompactionMetrics) RecordSwap() {
	atomic.AddInt64(&m.swaps, 1)
}

func (m *CompactionMetrics) Swaps() int64 {
	return atomic.LoadInt64(&m.swaps)
}

func (m *CompactionMetrics) Runs() int64 {
	return atomic.LoadInt64(&m.runs)
}

func (m *CompactionMetrics) GetStats() map[string]interface{} {
	last, _ := m.lastCompacted.Load().(time.Time)
	return map[string]interface{}{
		"runs":           atomic.LoadInt64(&m.runs),
		"swaps":          atomic.LoadInt64(&m.swaps),
		"blocks_scanned": atomic.LoadInt64(&m.blocksScanned),
		"last_duration":  time.Duration(atomic.LoadInt64(&m.lastDuration)),
		"last_compacted": last,
	}
}
