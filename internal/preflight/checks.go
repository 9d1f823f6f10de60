package preflight

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"

	"cohortgen/internal/appender"
	"cohortgen/internal/config"
	"cohortgen/internal/sink"
	"cohortgen/internal/synth"
)

// minFreeBytes is the floor below which an append run is likely to fail
// mid-batch and leave a torn workbook or partial CSV rows behind.
const minFreeBytes = 100 * 1024 * 1024

// statfsFunc allows tests to stub filesystem stats.
type statfsFunc func(path string) (total uint64, free uint64, err error)

var statfs statfsFunc = realStatfs

func realStatfs(path string) (uint64, uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, 0, err
	}
	total := stat.Blocks * uint64(stat.Bsize)
	free := stat.Bavail * uint64(stat.Bsize)
	return total, free, nil
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies the filesystem holding the output directory has
// room for at least a few runs of appended batches.
func CheckDiskSpace(name, path string) Result {
	_, free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < minFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s free (need at least %s)", formatBytes(free), formatBytes(minFreeBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", formatBytes(free))}
}

// CheckCatalog verifies the diagnosis catalog loads and validates. An empty
// path means the built-in catalog, which always passes.
func CheckCatalog(path string) Result {
	const name = "Diagnosis catalog"

	if strings.TrimSpace(path) == "" {
		catalog := synth.DefaultCatalog()
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("built-in (%d diagnoses)", len(catalog.Diagnoses))}
	}
	catalog, err := synth.LoadCatalog(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d diagnoses)", path, len(catalog.Diagnoses))}
}

// CheckDatasetLock verifies no other process holds the dataset lock. The
// probe lock is released immediately, so a pass only means the lock was
// free at check time.
func CheckDatasetLock(cfg *config.Config) Result {
	const name = "Dataset lock"

	lockPath := appender.LockPath(cfg)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", lockPath, err)}
	}
	if !ok {
		return Result{Name: name, Detail: fmt.Sprintf("%s (held by another cohortgen instance)", lockPath)}
	}
	if err := lock.Unlock(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: release probe lock: %v)", lockPath, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (free)", lockPath)}
}

// CheckDatasets reports, per configured format, whether the run will create
// a fresh dataset file or append to an existing one.
func CheckDatasets(cfg *config.Config) []Result {
	results := make([]Result, 0, len(cfg.Output.Formats))
	for _, format := range cfg.Output.Formats {
		name := fmt.Sprintf("Dataset (%s)", format)
		path, err := sink.DatasetPath(cfg, format)
		if err != nil {
			results = append(results, Result{Name: name, Detail: err.Error()})
			continue
		}
		info, err := os.Stat(path)
		switch {
		case os.IsNotExist(err):
			results = append(results, Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)})
		case err != nil:
			results = append(results, Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)})
		case info.IsDir():
			results = append(results, Result{Name: name, Detail: fmt.Sprintf("%s (error: is a directory)", path)})
		default:
			results = append(results, Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s, will append)", path, formatBytes(uint64(info.Size())))})
		}
	}
	return results
}

func formatBytes(value uint64) string {
	const (
		kiB = 1024
		miB = kiB * 1024
		giB = miB * 1024
	)
	switch {
	case value >= giB:
		return fmt.Sprintf("%.2f GiB", float64(value)/float64(giB))
	case value >= miB:
		return fmt.Sprintf("%.2f MiB", float64(value)/float64(miB))
	case value >= kiB:
		return fmt.Sprintf("%.2f KiB", float64(value)/float64(kiB))
	default:
		return fmt.Sprintf("%d B", value)
	}
}
