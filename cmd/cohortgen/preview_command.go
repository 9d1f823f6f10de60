package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var (
		count    int
		seedFlag int64
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a small sample of generated records as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if count <= 0 {
				count = 10
			}

			gen, seed, err := newGenerator(cfg, seedFlag)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderRecords(gen.Batch(count)))
			footer := fmt.Sprintf("%d records, seed %d, sampler %s (nothing was written)", count, seed, cfg.Generator.Sampler)
			if shouldColorize(out) {
				footer = ansiDim + footer + ansiReset
			}
			fmt.Fprintln(out, footer)
			return nil
		},
	}

	cmd.Flags().IntVar(&count, "n", 10, "Number of records to preview")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed override for reproducible output")
	return cmd
}

const (
	ansiReset = "\x1b[0m"
	ansiDim   = "\x1b[2m"
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
)

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
