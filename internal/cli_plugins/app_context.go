package cliplugins

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"diskmap/internal/config"
	"diskmap/internal/db"
	"diskmap/internal/defrag"
	"diskmap/internal/disk/metrics"
	"diskmap/internal/util/logger/sl"

	"go.etcd.io/bbolt"
)

var ErrStoreDisabled = errors.New("result store is disabled")

// AppContext holds the dependencies shared by the commands. The result store
// is opened on first use so commands that do not need it never lock the file.
type AppContext struct {
	Config *config.Config
	Logger *slog.Logger

	metrics   *metrics.CompactionMetrics
	storeOnce sync.Once
	store     *db.ResultDB
	storeErr  error
}

func NewAppContext() *AppContext {
	return &AppContext{
		Config:  &config.Config{Env: config.EnvLocal},
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: metrics.NewCompactionMetrics(),
	}
}

func (a *AppContext) Configure(cfg *config.Config, log *slog.Logger) {
	a.Config = cfg
	a.Logger = log
}

func (a *AppContext) Store() (*db.ResultDB, error) {
	a.storeOnce.Do(func() {
		if a.Config.DBPath == "" {
			a.storeErr = ErrStoreDisabled
			return
		}
		a.store, a.storeErr = db.NewResultDB(db.Config{
			Path:    a.Config.DBPath,
			Options: &bbolt.Options{Timeout: time.Second},
		})
	})
	return a.store, a.storeErr
}

// Runner returns a runner backed by the store when it can be opened.
func (a *AppContext) Runner() *defrag.Runner {
	cfg := defrag.RunnerConfig{
		Metrics: a.metrics,
		Logger:  a.Logger,
	}

	store, err := a.Store()
	switch {
	case err == nil:
		cfg.Store = store
	case !errors.Is(err, ErrStoreDisabled):
		a.Logger.Warn("running without result store", sl.Err(err))
	}

	return defrag.NewRunner(cfg)
}

func (a *AppContext) Close() error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("failed to close result store: %w", err)
	}
	return nil
}
