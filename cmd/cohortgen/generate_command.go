package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cohortgen/internal/appender"
	"cohortgen/internal/logging"
	"cohortgen/internal/sink"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var (
		count    int
		seedFlag int64
		format   string
		appendTo bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a one-shot batch of admission records",
		Long: `Generate produces a single batch of records. By default the batch is
printed to stdout as JSON; --format table renders a compact table instead,
and --append writes the batch to the configured datasets like one cycle of
"cohortgen run".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			n := count
			if n <= 0 {
				n = cfg.Batch.Size
			}

			gen, seed, err := newGenerator(cfg, seedFlag)
			if err != nil {
				return err
			}

			if appendTo {
				cfg.Batch.Size = n
				cfg.Batch.MaxBatches = 1

				logger, err := logging.NewFromConfig(cfg)
				if err != nil {
					return fmt.Errorf("init logger: %w", err)
				}
				sinks, err := sink.ForFormats(cfg)
				if err != nil {
					return err
				}
				app, err := appender.New(cfg, gen, sinks, logger)
				if err != nil {
					closeSinks(sinks)
					return err
				}
				if err := app.Run(cmd.Context()); err != nil {
					_ = app.Close()
					return err
				}
				if err := app.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Appended %d records (seed %d) to %s\n",
					app.Records(), seed, cfg.Output.Directory)
				return nil
			}

			records := gen.Batch(n)
			switch format {
			case "json":
				return writeJSON(cmd, records)
			case "table":
				fmt.Fprintln(cmd.OutOrStdout(), renderRecords(records))
				return nil
			default:
				return fmt.Errorf("unknown output format %q (expected json or table)", format)
			}
		},
	}

	cmd.Flags().IntVar(&count, "n", 0, "Number of records (defaults to batch.size)")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed override for reproducible output")
	cmd.Flags().StringVar(&format, "format", "json", "Output format when printing to stdout (json or table)")
	cmd.Flags().BoolVar(&appendTo, "append", false, "Append to the configured datasets instead of printing")
	return cmd
}
