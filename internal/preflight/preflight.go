package preflight

import (
	"cohortgen/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config: output
// directory access, free disk space, catalog health, lock availability,
// and the state of each dataset file.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Output.Directory),
		CheckDiskSpace("Disk space", cfg.Output.Directory),
		CheckCatalog(cfg.Generator.CatalogPath),
		CheckDatasetLock(cfg),
	}
	results = append(results, CheckDatasets(cfg)...)
	return results
}

// AllPassed reports whether every check succeeded.
func AllPassed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}
