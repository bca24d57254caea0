package cliplugins

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type ShowCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewShowCommand(app *AppContext) *ShowCommand {
	return &ShowCommand{app: app}
}

func (s *ShowCommand) Meta() *cobra.Command {
	if s.cmd != nil {
		return s.cmd
	}
	s.cmd = &cobra.Command{
		Use:   "show [disk map]",
		Short: "Print the disk layout before and after compaction",
		Args:  cobra.MaximumNArgs(1),
	}
	addInputFlags(s.cmd)
	return s.cmd
}

func (s *ShowCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	before, after, err := s.app.Runner().Layout(input)
	if err != nil {
		return err
	}

	label := color.New(color.Bold).SprintFunc()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s\n", label("before:"), before)
	fmt.Fprintf(out, "%s %s\n", label("after: "), after)

	st := after.Stats()
	fmt.Fprintf(out, "%d blocks, %d files, %d used, %d free\n", st.Blocks, st.Files, st.Occupied, st.Free)
	return nil
}
