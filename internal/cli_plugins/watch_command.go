package cliplugins

import (
	"context"
	"fmt"
	"log/slog"

	"diskmap/internal/util/logger/sl"
	"diskmap/internal/watcher"

	"github.com/spf13/cobra"
)

type WatchCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewWatchCommand(app *AppContext) *WatchCommand {
	return &WatchCommand{app: app}
}

func (w *WatchCommand) Meta() *cobra.Command {
	if w.cmd != nil {
		return w.cmd
	}
	w.cmd = &cobra.Command{
		Use:   "watch",
		Short: "Print a new checksum every time the disk map file changes",
		Args:  cobra.NoArgs,
		Annotations: map[string]string{
			cobra.BashCompOneRequiredFlag: "true",
		},
	}
	w.cmd.Flags().StringP("file", "f", "", "disk map file to watch (required)")
	return w.cmd
}

func (w *WatchCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	path, err := cmd.Flags().GetString("file")
	if err != nil || path == "" {
		return fmt.Errorf("flag --file is required")
	}

	runner := w.app.Runner()
	fw, err := watcher.NewFileWatcher(runner, watcher.Config{
		DebounceDuration: w.app.Config.Debounce,
		Logger:           w.app.Logger,
	})
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch(path); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	input, err := readInput(cmd, nil)
	if err != nil {
		return err
	}
	if res, err := runner.Run(ctx, input); err != nil {
		w.app.Logger.Error("initial run failed", sl.Err(err))
	} else {
		fmt.Fprintln(out, res.Checksum)
	}

	for {
		select {
		case <-ctx.Done():
			w.app.Logger.Info("watch stopped", slog.Any("stats", fw.Metrics().GetStats()))
			return nil
		case res := <-fw.Results():
			fmt.Fprintln(out, res.Checksum)
		case err := <-fw.Errors():
			w.app.Logger.Error("run failed", sl.Err(err))
		}
	}
}
