package cliplugins

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"diskmap/internal/config"
	"diskmap/internal/defrag"
	"diskmap/internal/disk"
	"diskmap/internal/hasher"
	"diskmap/pkg/cli"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestApp(t *testing.T, dbPath string) *AppContext {
	t.Helper()
	app := NewAppContext()
	app.Configure(&config.Config{
		Env:      config.EnvLocal,
		DBPath:   dbPath,
		Debounce: 50 * time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(func() {
		assert.NoError(t, app.Close())
	})
	return app
}

func newTestCLI(app *AppContext, out io.Writer) *cli.CLI {
	c := cli.NewCLI("defrag", "test")
	checksum := NewChecksumCommand(app)
	c.RegisterPlugin(checksum)
	c.SetDefault(checksum)
	c.RegisterPlugin(NewShowCommand(app))
	c.RegisterPlugin(NewHistoryCommand(app))
	c.RegisterPlugin(NewWatchCommand(app))
	c.Root().SetOut(out)
	c.Root().SetErr(io.Discard)
	return c
}

func TestChecksumCommand(t *testing.T) {
	inputFile := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(inputFile, []byte("12345\n"), 0644))

	tests := []struct {
		name     string
		args     []string
		stdin    string
		expected string
	}{
		{name: "sample by default", args: nil, expected: "1928\n"},
		{name: "explicit subcommand", args: []string{"checksum"}, expected: "1928\n"},
		{name: "positional map", args: []string{"checksum", "12345"}, expected: "60\n"},
		{name: "positional map on root", args: []string{"12345"}, expected: "60\n"},
		{name: "file", args: []string{"checksum", "--file", inputFile}, expected: "60\n"},
		{name: "stdin", args: []string{"-f", "-"}, stdin: disk.SampleInput + "\n", expected: "1928\n"},
		{name: "single file run", args: []string{"5"}, expected: "0\n"},
		{name: "empty disk", args: []string{"0"}, expected: "0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := newTestCLI(newTestApp(t, ""), &out)
			c.Root().SetIn(strings.NewReader(tt.stdin))

			require.NoError(t, c.Run(context.Background(), tt.args))
			assert.Equal(t, tt.expected, out.String())
		})
	}
}

func TestChecksumCommand_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		err  error
	}{
		{name: "malformed", args: []string{"12a4"}, err: disk.ErrMalformedInput},
		{name: "missing file", args: []string{"-f", "/non/existent/input.txt"}, err: os.ErrNotExist},
		{name: "too many args", args: []string{"checksum", "1", "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			c := newTestCLI(newTestApp(t, ""), &out)

			err := c.Run(context.Background(), tt.args)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
			assert.Empty(t, out.String())
		})
	}
}

func TestShowCommand(t *testing.T) {
	var out bytes.Buffer
	c := newTestCLI(newTestApp(t, ""), &out)

	require.NoError(t, c.Run(context.Background(), []string{"show", "12345"}))
	assert.Contains(t, out.String(), "0..111....22222")
	assert.Contains(t, out.String(), "022111222......")
	assert.Contains(t, out.String(), "15 blocks, 3 files, 9 used, 6 free")
}

func TestHistoryCommand(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	app := newTestApp(t, dbPath)

	var out bytes.Buffer
	c := newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{"12345"}))
	c = newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), nil))

	// running the same map again recomputes and replaces the stored record
	c = newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{disk.SampleInput}))
	assert.Equal(t, "60\n1928\n1928\n", out.String())

	out.Reset()
	c = newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{"history"}))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], " 60"), lines[0])
	assert.Contains(t, lines[1], disk.SampleInput)
	assert.True(t, strings.HasSuffix(lines[1], " 1928"), lines[1])

	out.Reset()
	c = newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{"history", "--clear"}))
	assert.Equal(t, "deleted 2 results\n", out.String())

	store, err := app.Store()
	require.NoError(t, err)
	results, err := store.GetAllResults()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestChecksumCommand_RecomputesStoredMap(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "results.db"))

	store, err := app.Store()
	require.NoError(t, err)
	stale := &defrag.Result{
		RunID:      "stale",
		Digest:     hasher.NewInputHasher().Hash(disk.SampleInput),
		Input:      disk.SampleInput,
		Checksum:   4242,
		ComputedAt: time.Now(),
	}
	require.NoError(t, store.SaveResult(stale))

	var out bytes.Buffer
	c := newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), nil))
	assert.Equal(t, "1928\n", out.String())

	stored, err := store.GetResult(stale.Digest)
	require.NoError(t, err)
	assert.Equal(t, 1928, stored.Checksum)
	assert.NotEqual(t, "stale", stored.RunID)
}

func TestHistoryCommand_StoreDisabled(t *testing.T) {
	var out bytes.Buffer
	c := newTestCLI(newTestApp(t, ""), &out)

	err := c.Run(context.Background(), []string{"history"})
	assert.ErrorIs(t, err, ErrStoreDisabled)
}

func TestAppContext_RunnerWithoutStore(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "missing", "results.db"))

	_, err := app.Store()
	require.Error(t, err)

	res, err := app.Runner().Run(context.Background(), disk.SampleInput)
	require.NoError(t, err)
	assert.Equal(t, 1928, res.Checksum)
}

func TestWatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte("5\n"), 0644))

	out := &safeBuffer{}
	c := newTestCLI(newTestApp(t, ""), out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- c.Run(ctx, []string{"watch", "--file", path})
	}()

	require.Eventually(t, func() bool {
		return out.String() == "0\n"
	}, 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte(disk.SampleInput+"\n"), 0644))
	require.Eventually(t, func() bool {
		return strings.HasSuffix(out.String(), "1928\n")
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop")
	}
}

func TestWatchCommand_RequiresFile(t *testing.T) {
	c := newTestCLI(newTestApp(t, ""), io.Discard)
	assert.Error(t, c.Run(context.Background(), []string{"watch"}))
}

func TestHistoryCommand_JSON(t *testing.T) {
	app := newTestApp(t, filepath.Join(t.TempDir(), "results.db"))

	var out bytes.Buffer
	c := newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{"history", "--json"}))
	assert.Equal(t, "[]\n", out.String())

	c = newTestCLI(app, io.Discard)
	require.NoError(t, c.Run(context.Background(), nil))

	out.Reset()
	c = newTestCLI(app, &out)
	require.NoError(t, c.Run(context.Background(), []string{"history", "--json"}))

	var results []map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, float64(1928), results[0]["Checksum"])
	assert.Equal(t, disk.SampleInput, results[0]["Input"])
	assert.Len(t, results[0]["Digest"], 64)
}

func TestAbbreviate(t *testing.T) {
	assert.Equal(t, "12345", abbreviate("12345\n", 8))
	assert.Equal(t, "12345...", abbreviate("1234567890", 8))
}
