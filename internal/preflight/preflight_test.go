package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"

	"cohortgen/internal/appender"
	"cohortgen/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Output.Directory = t.TempDir()
	return &cfg
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDiskSpace_OK(t *testing.T) {
	result := CheckDiskSpace("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDiskSpace_Low(t *testing.T) {
	orig := statfs
	statfs = func(string) (uint64, uint64, error) {
		return 10 * 1024 * 1024 * 1024, 1024 * 1024, nil
	}
	defer func() { statfs = orig }()

	result := CheckDiskSpace("test", t.TempDir())
	if result.Passed {
		t.Fatal("expected failure when free space is below the floor")
	}
}

func TestCheckDiskSpace_Error(t *testing.T) {
	orig := statfs
	statfs = func(string) (uint64, uint64, error) {
		return 0, 0, errors.New("no such filesystem")
	}
	defer func() { statfs = orig }()

	result := CheckDiskSpace("test", t.TempDir())
	if result.Passed {
		t.Fatal("expected failure when statfs errors")
	}
}

func TestCheckCatalog_BuiltIn(t *testing.T) {
	result := CheckCatalog("")
	if !result.Passed {
		t.Fatalf("expected pass for built-in catalog, got: %s", result.Detail)
	}
}

func TestCheckCatalog_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte("[pools]\ngenders = [\"Female\", \"Male\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckCatalog(path)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckCatalog_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.toml")
	if err := os.WriteFile(path, []byte("[weights]\nalcohol = [1.0]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckCatalog(path)
	if result.Passed {
		t.Fatal("expected failure for catalog with bad weight vector")
	}
}

func TestCheckCatalog_MissingFile(t *testing.T) {
	result := CheckCatalog(filepath.Join(t.TempDir(), "nope.toml"))
	if result.Passed {
		t.Fatal("expected failure for missing catalog file")
	}
}

func TestCheckDatasetLock_Free(t *testing.T) {
	cfg := testConfig(t)
	result := CheckDatasetLock(cfg)
	if !result.Passed {
		t.Fatalf("expected pass for free lock, got: %s", result.Detail)
	}
}

func TestCheckDatasetLock_Held(t *testing.T) {
	cfg := testConfig(t)
	held := flock.New(appender.LockPath(cfg))
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("could not take lock for test: ok=%v err=%v", ok, err)
	}
	defer held.Unlock()

	result := CheckDatasetLock(cfg)
	if result.Passed {
		t.Fatal("expected failure while lock is held")
	}
}

func TestCheckDatasets_CreateAndAppend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Formats = []string{"csv", "ndjson"}

	existing := filepath.Join(cfg.Output.Directory, cfg.Output.Prefix+".csv")
	if err := os.WriteFile(existing, []byte("header\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := CheckDatasets(cfg)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !results[0].Passed || !results[1].Passed {
		t.Fatalf("expected both datasets to pass: %+v", results)
	}
	if got := results[0].Detail; !strings.Contains(got, "will append") {
		t.Fatalf("csv detail %q, want append note", got)
	}
	if got := results[1].Detail; !strings.Contains(got, "will be created") {
		t.Fatalf("ndjson detail %q, want create note", got)
	}
}

func TestCheckDatasets_DirectoryCollision(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Formats = []string{"csv"}
	if err := os.Mkdir(filepath.Join(cfg.Output.Directory, cfg.Output.Prefix+".csv"), 0o755); err != nil {
		t.Fatal(err)
	}
	results := CheckDatasets(cfg)
	if results[0].Passed {
		t.Fatal("expected failure when the dataset path is a directory")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_DefaultsPass(t *testing.T) {
	cfg := testConfig(t)
	results := RunAll(cfg)
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
	if !AllPassed(results) {
		t.Fatal("AllPassed disagrees with individual results")
	}
}

func TestAllPassed_Mixed(t *testing.T) {
	results := []Result{{Name: "a", Passed: true}, {Name: "b"}}
	if AllPassed(results) {
		t.Fatal("expected failure with one failed result")
	}
}
