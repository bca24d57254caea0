package slogpretty

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"diskmap/internal/util/logger/sl"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestPrettyHandler(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).With(slog.String("op", "test"))

	log.Info("checksum computed", slog.Int("checksum", 1928))
	out := buf.String()
	assert.Contains(t, out, "INFO:")
	assert.Contains(t, out, "checksum computed")
	assert.Contains(t, out, `"checksum": 1928`)
	assert.Contains(t, out, `"op": "test"`)

	buf.Reset()
	log.Error("store failed", sl.Err(errors.New("boom")))
	assert.Contains(t, buf.String(), "ERROR:")
	assert.Contains(t, buf.String(), `"error": "boom"`)
}

func TestPrettyHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelInfo}}
	log := slog.New(opts.NewPrettyHandler(&buf))

	log.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestPrettyHandler_Groups(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	opts := PrettyHandlerOptions{SlogOpts: &slog.HandlerOptions{Level: slog.LevelDebug}}
	log := slog.New(opts.NewPrettyHandler(&buf)).
		With(slog.String("op", "watch")).
		WithGroup("run").
		With(slog.Int("blocks", 42))

	log.Info("checksum computed",
		slog.Int("checksum", 1928),
		slog.Group("compaction", slog.Int("swaps", 12)),
	)

	out := buf.String()
	assert.Contains(t, out, `"op": "watch"`)
	assert.Contains(t, out, `"run.blocks": 42`)
	assert.Contains(t, out, `"run.checksum": 1928`)
	assert.Contains(t, out, `"run.compaction.swaps": 12`)
}
