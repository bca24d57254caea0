package cliplugins

import (
	"fmt"
	"io"
	"os"

	"diskmap/internal/disk"

	"github.com/spf13/cobra"
)

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("file", "f", "", "read the disk map from a file, - for stdin")
}

// readInput picks the disk map from the positional argument, the --file flag
// or the built-in sample, in that order.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	input, err := readInputSource(cmd)
	if err != nil {
		return "", err
	}
	return disk.TrimLineEnding(input), nil
}

func readInputSource(cmd *cobra.Command) (string, error) {
	path, err := cmd.Flags().GetString("file")
	if err != nil {
		return "", fmt.Errorf("flag --file failed: %w", err)
	}

	switch path {
	case "":
		return disk.SampleInput, nil
	case "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read disk map: %w", err)
	}
	return string(data), nil
}
