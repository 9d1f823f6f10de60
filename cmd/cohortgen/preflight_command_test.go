package main

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"cohortgen/internal/preflight"
)

func TestPreflightPassesOnFreshEnv(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	requireContains(t, out, "Output directory")
	requireContains(t, out, "Dataset lock")
	requireContains(t, out, "✓")
}

func TestPreflightJSON(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"preflight", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("preflight --json: %v", err)
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestPreflightFailsWithBadCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Generator.CatalogPath = filepath.Join(env.baseDir, "missing-catalog.toml")
	writeTestConfig(t, env.configPath, env.cfg)

	out, _, err := runCLI(t, []string{"preflight"}, env.configPath)
	if err == nil {
		t.Fatal("expected failure exit for bad catalog")
	}
	requireContains(t, out, "✗")
}
