package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Output contains configuration for where datasets are written.
type Output struct {
	Directory string   `toml:"directory"`
	Prefix    string   `toml:"prefix"`
	Formats   []string `toml:"formats"`
}

// Batch contains configuration for batch sizing and pacing.
type Batch struct {
	Size            int     `toml:"size"`
	IntervalSeconds float64 `toml:"interval_seconds"`
	MaxBatches      int     `toml:"max_batches"`
}

// Interval returns the pause between appended batches.
func (b Batch) Interval() time.Duration {
	return time.Duration(b.IntervalSeconds * float64(time.Second))
}

// Generator contains configuration for the record synthesizer.
type Generator struct {
	// Seed drives every random draw. Zero selects a fresh seed per run.
	Seed int64 `toml:"seed"`
	// Sampler selects the sampling implementation ("pcg" or "gonum").
	Sampler string `toml:"sampler"`
	// CatalogPath points at an optional TOML catalog override.
	CatalogPath string `toml:"catalog_path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format    string `toml:"format"`
	Level     string `toml:"level"`
	Directory string `toml:"directory"`
}

// Config encapsulates all configuration values for cohortgen.
//
// Configuration sections by subsystem:
//   - Output: dataset directory, file prefix, and enabled formats
//   - Batch: batch size, append interval, and optional batch cap
//   - Generator: seed, sampler implementation, and catalog override
//   - Logging: log format, level, and directory
type Config struct {
	Output    Output    `toml:"output"`
	Batch     Batch     `toml:"batch"`
	Generator Generator `toml:"generator"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/cohortgen/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/cohortgen/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("cohortgen.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Output.Directory, c.Logging.Directory} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultOutputDir() string {
	if base, ok := os.LookupEnv("XDG_DATA_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "cohortgen", "datasets")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/share/cohortgen/datasets"
	}
	return filepath.Join(home, ".local", "share", "cohortgen", "datasets")
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
