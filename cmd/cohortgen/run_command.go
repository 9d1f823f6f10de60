package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"cohortgen/internal/appender"
	"cohortgen/internal/logging"
	"cohortgen/internal/preflight"
	"cohortgen/internal/sink"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		batchSize  int
		interval   float64
		maxBatches int
		seedFlag   int64
		sampler    string
		skipChecks bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Append generated batches to the configured datasets until stopped",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if batchSize > 0 {
				cfg.Batch.Size = batchSize
			}
			if cmd.Flags().Changed("interval") {
				cfg.Batch.IntervalSeconds = interval
			}
			if cmd.Flags().Changed("max-batches") {
				cfg.Batch.MaxBatches = maxBatches
			}
			if s := strings.TrimSpace(sampler); s != "" {
				cfg.Generator.Sampler = strings.ToLower(s)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if !skipChecks {
				results := preflight.RunAll(cfg)
				if !preflight.AllPassed(results) {
					fmt.Fprintln(cmd.ErrOrStderr(), renderPreflight(results, false))
					return fmt.Errorf("preflight checks failed")
				}
			}

			gen, seed, err := newGenerator(cfg, seedFlag)
			if err != nil {
				return err
			}

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			logger.Info("starting generation run",
				logging.Uint64(logging.FieldSeed, seed),
				logging.String("sampler", cfg.Generator.Sampler),
				logging.Any("formats", cfg.Output.Formats),
			)

			sinks, err := sink.ForFormats(cfg)
			if err != nil {
				return err
			}

			app, err := appender.New(cfg, gen, sinks, logger)
			if err != nil {
				closeSinks(sinks)
				return err
			}
			defer func() {
				if err := app.Close(); err != nil {
					logger.Warn("close sinks", logging.Error(err))
				}
			}()

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			runErr := app.Run(signalCtx)
			logger.Info("generation run finished",
				logging.Int(logging.FieldBatch, app.Batches()),
				logging.Int(logging.FieldRecords, app.Records()),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "Appended %d batches (%d records per sink) to %s\n",
				app.Batches(), app.Records(), cfg.Output.Directory)
			return runErr
		},
	}

	cmd.Flags().IntVar(&batchSize, "n", 0, "Records per batch (overrides batch.size)")
	cmd.Flags().Float64Var(&interval, "interval", 0, "Seconds between batches (overrides batch.interval_seconds)")
	cmd.Flags().IntVar(&maxBatches, "max-batches", 0, "Stop after this many batches (0 = run until interrupted)")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Seed override for reproducible runs")
	cmd.Flags().StringVar(&sampler, "sampler", "", "Sampler override (pcg or gonum)")
	cmd.Flags().BoolVar(&skipChecks, "skip-preflight", false, "Skip preflight checks before the run")
	return cmd
}

func closeSinks(sinks []sink.Sink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}
