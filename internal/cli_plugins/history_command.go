package cliplugins

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diskmap/internal/defrag"
	utiljson "diskmap/internal/util/utilJson"

	"github.com/spf13/cobra"
)

const historyInputWidth = 24

type HistoryCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewHistoryCommand(app *AppContext) *HistoryCommand {
	return &HistoryCommand{app: app}
}

func (h *HistoryCommand) Meta() *cobra.Command {
	if h.cmd != nil {
		return h.cmd
	}
	h.cmd = &cobra.Command{
		Use:   "history",
		Short: "List stored checksums",
		Args:  cobra.NoArgs,
	}
	h.cmd.Flags().BoolP("clear", "c", false, "delete every stored result")
	h.cmd.Flags().Bool("json", false, "print results as JSON")
	return h.cmd
}

func (h *HistoryCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	purge, err := cmd.Flags().GetBool("clear")
	if err != nil {
		return fmt.Errorf("flag --clear failed: %w", err)
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("flag --json failed: %w", err)
	}

	store, err := h.app.Store()
	if err != nil {
		return err
	}

	results, err := store.GetAllResults()
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON && !purge {
		if results == nil {
			results = []*defrag.Result{}
		}
		return utiljson.WriteJSON(out, results)
	}

	for _, res := range results {
		if purge {
			if err := store.DeleteResult(res.Digest); err != nil {
				return fmt.Errorf("failed to delete result %s: %w", res.Digest, err)
			}
			continue
		}
		fmt.Fprintf(out, "%s  %s  %-*s  %d\n",
			res.ComputedAt.Format(time.RFC3339),
			res.Digest.String()[:12],
			historyInputWidth, abbreviate(res.Input, historyInputWidth),
			res.Checksum,
		)
	}

	if purge {
		fmt.Fprintf(out, "deleted %d results\n", len(results))
	}
	return nil
}

func abbreviate(s string, width int) string {
	s = strings.TrimSpace(s)
	if len(s) <= width {
		return s
	}
	return s[:width-3] + "..."
}
