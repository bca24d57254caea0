package cliplugins

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type ChecksumCommand struct {
	cmd *cobra.Command
	app *AppContext
}

func NewChecksumCommand(app *AppContext) *ChecksumCommand {
	return &ChecksumCommand{app: app}
}

func (c *ChecksumCommand) Meta() *cobra.Command {
	if c.cmd != nil {
		return c.cmd
	}
	c.cmd = &cobra.Command{
		Use:   "checksum [disk map]",
		Short: "Compact a disk map and print its checksum",
		Long: `Expands the disk map, moves file blocks one at a time from the end of
the disk into the leftmost free blocks and prints the sum of position * file id.
Without arguments the built-in sample map is used.`,
		Args: cobra.MaximumNArgs(1),
	}
	addInputFlags(c.cmd)
	return c.cmd
}

func (c *ChecksumCommand) Execute(ctx context.Context, cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	res, err := c.app.Runner().Run(ctx, input)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), res.Checksum)
	return nil
}
