package defrag

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"diskmap/internal/disk"
	"diskmap/internal/disk/metrics"
	"diskmap/internal/hasher"
	"diskmap/internal/util/logger/sl"

	"github.com/google/uuid"
)

// Runner parses, compacts and checksums disk maps. Every result is recorded
// in the optional store; the store is never consulted for the answer.
type Runner struct {
	store     ResultStore
	hasher    InputHasher
	compactor *disk.Compactor
	logger    *slog.Logger
}

type RunnerConfig struct {
	Store   ResultStore
	Hasher  InputHasher
	Metrics *metrics.CompactionMetrics
	Logger  *slog.Logger
}

func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Hasher == nil {
		cfg.Hasher = hasher.NewInputHasher()
	}

	return &Runner{
		store:  cfg.Store,
		hasher: cfg.Hasher,
		compactor: disk.NewCompactor(disk.CompactorConfig{
			Metrics: cfg.Metrics,
			Logger:  cfg.Logger,
		}),
		logger: cfg.Logger,
	}
}

func (r *Runner) Metrics() *metrics.CompactionMetrics {
	return r.compactor.Metrics()
}

// Run returns the checksum of the compacted disk map. Malformed input is
// returned as an error; store failures are only logged.
func (r *Runner) Run(ctx context.Context, input string) (*Result, error) {
	const op = "defrag.Run"
	log := r.logger.With(slog.String("op", op))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	digest := r.hasher.Hash(input)
	log = log.With(slog.String("digest", digest.String()))

	m, err := disk.Parse(input)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	st := m.Stats()

	_, swaps := r.compactor.CompactWithSwaps(m)

	res := &Result{
		RunID:      uuid.New().String(),
		Digest:     digest,
		Input:      input,
		Blocks:     st.Blocks,
		Occupied:   st.Occupied,
		Free:       st.Free,
		Files:      st.Files,
		Swaps:      int64(swaps),
		Checksum:   disk.Checksum(m),
		ComputedAt: time.Now().UTC(),
	}

	log.Info("checksum computed",
		slog.String("run_id", res.RunID),
		slog.Int("blocks", res.Blocks),
		slog.Int("checksum", res.Checksum),
	)

	if r.store != nil {
		if err := r.store.SaveResult(res); err != nil {
			log.Error("failed to save result", sl.Err(err))
		}
	}

	return res, nil
}

// Layout returns the disk map before and after compaction.
func (r *Runner) Layout(input string) (before, after disk.Map, err error) {
	m, err := disk.Parse(input)
	if err != nil {
		return nil, nil, fmt.Errorf("defrag.Layout: %w", err)
	}
	before = m.Clone()
	after = r.compactor.Compact(m)
	return before, after, nil
}
