package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/traPtitech/identfavicon/utils/identicon"
)

// generateCommand identicon生成コマンド
func generateCommand() *cobra.Command {
	var (
		size   int
		output string
	)

	cmd := cobra.Command{
		Use:   "generate SEED",
		Short: "Generate an identicon PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := getCLILogger()
			defer logger.Sync()

			b, err := identicon.Generate(args[0], size)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if len(output) > 0 && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if _, err := w.Write(b); err != nil {
				return fmt.Errorf("failed to write png: %w", err)
			}

			logger.Info("identicon generated",
				zap.String("seed", args[0]),
				zap.Uint32("hash", identicon.Hash(args[0])),
				zap.Int("size", size),
				zap.String("output", output),
			)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&size, "size", "s", 64, "icon size in pixels")
	flags.StringVarP(&output, "output", "o", "", "output file path (default: stdout)")

	return &cmd
}
