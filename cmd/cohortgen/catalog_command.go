package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cohortgen/internal/synth"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Show the active diagnosis catalog and formularies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			catalog := synth.DefaultCatalog()
			source := "built-in"
			if path := strings.TrimSpace(cfg.Generator.CatalogPath); path != "" {
				catalog, err = synth.LoadCatalog(path)
				if err != nil {
					return fmt.Errorf("load catalog: %w", err)
				}
				source = path
			}

			if jsonOut {
				return writeJSON(cmd, catalog)
			}

			headers := []string{"Diagnosis", "Base stay", "Spread", "Base readmit", "Formulary"}
			aligns := []columnAlignment{alignLeft, alignRight, alignRight, alignRight, alignLeft}
			rows := make([][]string, 0, len(catalog.Diagnoses))
			for _, d := range catalog.Diagnoses {
				rows = append(rows, []string{
					d.Name,
					fmt.Sprintf("%.1fd", d.BaseStayDays),
					fmt.Sprintf("%.1fd", d.StaySpreadDays),
					strconv.FormatFloat(d.ReadmitBaseRate, 'f', 2, 64),
					strings.Join(d.Medications, ", "),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Catalog: %s (%d diagnoses)\n", source, len(catalog.Diagnoses))
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			fmt.Fprintf(out, "Genders: %s\n", strings.Join(catalog.Genders, ", "))
			fmt.Fprintf(out, "Smoking: %s\n", strings.Join(catalog.SmokingStatuses, ", "))
			fmt.Fprintf(out, "Alcohol: %s\n", strings.Join(catalog.AlcoholUse, ", "))
			fmt.Fprintf(out, "Insurance: %s\n", strings.Join(catalog.InsuranceTypes, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the catalog as JSON")
	return cmd
}
