package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"diskmap/internal/cli_plugins"
	"diskmap/internal/config"
	"diskmap/internal/util/logger/handlers/slogpretty"
	"diskmap/pkg/cli"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := cliplugins.NewAppContext()
	defer app.Close()

	c := cli.NewCLI("defrag", "Compact a disk map and print its checksum")
	c.Root().SetOut(stdout)
	c.Root().SetErr(stderr)

	var configPath string
	c.Root().PersistentFlags().StringVar(&configPath, "config", "", "path to config file")
	c.Root().PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(config.ResolvePath(configPath))
		if err != nil {
			return err
		}
		app.Configure(cfg, setupLogger(cfg.Env, stderr))
		return nil
	}

	checksum := cliplugins.NewChecksumCommand(app)
	c.RegisterPlugin(checksum)
	c.SetDefault(checksum)
	c.RegisterPlugin(cliplugins.NewShowCommand(app))
	c.RegisterPlugin(cliplugins.NewHistoryCommand(app))
	c.RegisterPlugin(cliplugins.NewWatchCommand(app))

	if err := c.Run(ctx, args); err != nil {
		fmt.Fprintln(stderr, "error:", err)
		return 1
	}
	return 0
}

// setupLogger writes to stderr; stdout carries only the checksum.
func setupLogger(env string, out io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case config.EnvLocal:
		if isTerminal(out) {
			log = setupPrettySlog(out)
		} else {
			log = slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelWarn}))
		}
	case config.EnvDev:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case config.EnvProd:
		log = slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}

func setupPrettySlog(out io.Writer) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(out)

	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
