package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cohortgen/internal/config"
	"cohortgen/internal/synth"
)

// newGenerator builds a generator from the resolved config. A zero seed
// means a fresh random seed per run; the effective seed is returned so
// commands can report it for reproduction.
func newGenerator(cfg *config.Config, seedFlag int64) (*synth.Generator, uint64, error) {
	seed := cfg.Generator.Seed
	if seedFlag != 0 {
		seed = seedFlag
	}
	if seed < 0 {
		return nil, 0, fmt.Errorf("seed must be non-negative, got %d", seed)
	}
	effective := uint64(seed)
	if effective == 0 {
		effective = synth.RandomSeed()
	}

	sampler, err := synth.NewSampler(cfg.Generator.Sampler, effective)
	if err != nil {
		return nil, 0, err
	}

	catalog := synth.DefaultCatalog()
	if path := strings.TrimSpace(cfg.Generator.CatalogPath); path != "" {
		catalog, err = synth.LoadCatalog(path)
		if err != nil {
			return nil, 0, fmt.Errorf("load catalog: %w", err)
		}
	}

	return synth.NewGenerator(catalog, sampler), effective, nil
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

// writeJSON renders v as indented JSON on the command's stdout, for the
// --json and --format json paths.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
