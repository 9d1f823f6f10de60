package config

import (
	"errors"
	"fmt"
	"strings"
)

// knownFormats lists every dataset format the sinks can write.
var knownFormats = map[string]struct{}{
	"csv":    {},
	"ndjson": {},
	"sqlite": {},
	"xlsx":   {},
}

// knownSamplers lists the sampling implementations the generator accepts.
var knownSamplers = map[string]struct{}{
	"pcg":   {},
	"gonum": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateBatch(); err != nil {
		return err
	}
	if err := c.validateGenerator(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateOutput() error {
	if strings.TrimSpace(c.Output.Directory) == "" {
		return errors.New("output.directory must be set")
	}
	if c.Output.Prefix == "" {
		return errors.New("output.prefix must be set")
	}
	if strings.ContainsAny(c.Output.Prefix, `/\`) {
		return fmt.Errorf("output.prefix %q must not contain path separators", c.Output.Prefix)
	}
	if len(c.Output.Formats) == 0 {
		return errors.New("output.formats must include at least one format")
	}
	for _, format := range c.Output.Formats {
		if _, ok := knownFormats[format]; !ok {
			return fmt.Errorf("output.formats: unknown format %q (known: csv, ndjson, sqlite, xlsx)", format)
		}
	}
	return nil
}

func (c *Config) validateBatch() error {
	if err := ensurePositiveMap(map[string]int{
		"batch.size": c.Batch.Size,
	}); err != nil {
		return err
	}
	if c.Batch.IntervalSeconds <= 0 {
		return errors.New("batch.interval_seconds must be positive")
	}
	if c.Batch.MaxBatches < 0 {
		return errors.New("batch.max_batches must be >= 0")
	}
	return nil
}

func (c *Config) validateGenerator() error {
	if c.Generator.Seed < 0 {
		return errors.New("generator.seed must be >= 0")
	}
	if _, ok := knownSamplers[c.Generator.Sampler]; !ok {
		return fmt.Errorf("generator.sampler: unknown implementation %q (known: pcg, gonum)", c.Generator.Sampler)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
