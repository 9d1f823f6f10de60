package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeGenerator(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeOutput() error {
	var err error
	if strings.TrimSpace(c.Output.Directory) == "" {
		c.Output.Directory = defaultOutputDir()
	}
	if c.Output.Directory, err = expandPath(c.Output.Directory); err != nil {
		return fmt.Errorf("output.directory: %w", err)
	}
	c.Output.Prefix = strings.TrimSpace(c.Output.Prefix)
	if c.Output.Prefix == "" {
		c.Output.Prefix = defaultOutputPrefix
	}

	if len(c.Output.Formats) == 0 {
		c.Output.Formats = defaultFormats()
		return nil
	}
	formats := make([]string, 0, len(c.Output.Formats))
	seen := make(map[string]struct{}, len(c.Output.Formats))
	for _, format := range c.Output.Formats {
		normalized := strings.ToLower(strings.TrimSpace(format))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		formats = append(formats, normalized)
	}
	if len(formats) == 0 {
		formats = defaultFormats()
	}
	c.Output.Formats = formats
	return nil
}

func (c *Config) normalizeGenerator() error {
	c.Generator.Sampler = strings.ToLower(strings.TrimSpace(c.Generator.Sampler))
	if c.Generator.Sampler == "" {
		c.Generator.Sampler = defaultSampler
	}

	if c.Generator.Seed == 0 {
		if value, ok := os.LookupEnv("COHORTGEN_SEED"); ok && strings.TrimSpace(value) != "" {
			seed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
			if err != nil {
				return fmt.Errorf("parse COHORTGEN_SEED: %w", err)
			}
			c.Generator.Seed = seed
		}
	}

	c.Generator.CatalogPath = strings.TrimSpace(c.Generator.CatalogPath)
	if c.Generator.CatalogPath == "" {
		if value, ok := os.LookupEnv("COHORTGEN_CATALOG"); ok {
			c.Generator.CatalogPath = strings.TrimSpace(value)
		}
	}
	if c.Generator.CatalogPath != "" {
		expanded, err := expandPath(c.Generator.CatalogPath)
		if err != nil {
			return fmt.Errorf("generator.catalog_path: %w", err)
		}
		c.Generator.CatalogPath = expanded
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.Directory) == "" {
		c.Logging.Directory = defaultLogDir
	}
	var err error
	if c.Logging.Directory, err = expandPath(c.Logging.Directory); err != nil {
		return fmt.Errorf("logging.directory: %w", err)
	}
	return nil
}
