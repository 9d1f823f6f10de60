package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"cohortgen/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check the environment before a generation run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cfg)
			if jsonOut {
				if err := writeJSON(cmd, results); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, renderPreflight(results, shouldColorize(out)))
			}

			if !preflight.AllPassed(results) {
				failed := 0
				for _, r := range results {
					if !r.Passed {
						failed++
					}
				}
				return fmt.Errorf("%d of %d preflight checks failed", failed, len(results))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}

func renderPreflight(results []preflight.Result, colorize bool) string {
	headers := []string{"", "Check", "Detail"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		mark := "✗"
		if r.Passed {
			mark = "✓"
		}
		if colorize {
			if r.Passed {
				mark = ansiGreen + mark + ansiReset
			} else {
				mark = ansiRed + mark + ansiReset
			}
		}
		rows = append(rows, []string{mark, r.Name, r.Detail})
	}
	return renderTable(headers, rows, aligns)
}
