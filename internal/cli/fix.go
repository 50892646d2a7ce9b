package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func (self *app) fixCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fix [file]",
		Short: "Fix a document and print it",
		Long: `Fix reads a document from file or stdin, repairs and sanitizes it, and
writes the result to stdout or to the output file.

Examples:
  htmlfix fix broken.html
  cat broken.html | htmlfix fix --output fixed.html
  htmlfix fix --keep-valid-urls --policy-file policy.yaml broken.html`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return self.runFix(cmd, args, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		"write the document to this file instead of stdout")
	return cmd
}

func (self *app) runFix(cmd *cobra.Command, args []string, output string) error {
	f, err := self.fixer()
	if err != nil {
		return err
	}

	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s := f.Fix(input)

	if output == "" {
		if _, err := io.WriteString(cmd.OutOrStdout(), s); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	} else if err := os.WriteFile(output, []byte(s), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	self.logger.Info("document fixed",
		slog.String("input", inputName(args)),
		slog.String("output", output),
		slog.Int("size", len(s)))
	return nil
}
