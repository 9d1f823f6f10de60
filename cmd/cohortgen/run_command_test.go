package main

import (
	"path/filepath"
	"testing"

	"cohortgen/internal/testsupport"
)

func TestRunAppendsBoundedBatches(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"run", "--max-batches", "2", "--n", "3", "--interval", "0.001"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Appended 2 batches (6 records per sink)")

	csvPath := filepath.Join(env.cfg.Output.Directory, env.cfg.Output.Prefix+".csv")
	rows := testsupport.CSVRows(t, csvPath)
	if len(rows) != 7 {
		t.Fatalf("got %d rows, want header plus 6 records", len(rows))
	}
}

func TestRunAppendsAcrossInvocations(t *testing.T) {
	env := setupCLITestEnv(t)

	args := []string{"run", "--max-batches", "1", "--n", "2", "--interval", "0.001"}
	if _, _, err := runCLI(t, args, env.configPath); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if _, _, err := runCLI(t, args, env.configPath); err != nil {
		t.Fatalf("second run: %v", err)
	}

	csvPath := filepath.Join(env.cfg.Output.Directory, env.cfg.Output.Prefix+".csv")
	rows := testsupport.CSVRows(t, csvPath)
	if len(rows) != 5 {
		t.Fatalf("got %d rows, want one header plus 4 records", len(rows))
	}
	if rows[0][0] != "PatientID" {
		t.Fatalf("unexpected header cell: %q", rows[0][0])
	}
	if rows[1][0] == "PatientID" || rows[3][0] == "PatientID" {
		t.Fatal("header was written more than once")
	}
}

func TestRunFailsPreflightWithBadCatalog(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Generator.CatalogPath = filepath.Join(env.baseDir, "missing-catalog.toml")
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"run", "--max-batches", "1"}, env.configPath)
	if err == nil {
		t.Fatal("expected preflight failure for missing catalog")
	}
	requireContains(t, err.Error(), "preflight")
}

func TestRunRejectsBadSampler(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"run", "--max-batches", "1", "--sampler", "mersenne"}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown sampler")
	}
}
