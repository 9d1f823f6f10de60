package config

const (
	defaultOutputPrefix         = "admissions"
	defaultLogDir               = "~/.local/share/cohortgen/logs"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
	defaultBatchSize            = 100
	defaultBatchIntervalSeconds = 2.0
	defaultSampler              = "pcg"
)

// Row-oriented and line-delimited datasets are both written by default; a
// run produces the admission data in paired form unless formats are trimmed.
func defaultFormats() []string {
	return []string{"csv", "ndjson"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Output: Output{
			Directory: defaultOutputDir(),
			Prefix:    defaultOutputPrefix,
			Formats:   defaultFormats(),
		},
		Batch: Batch{
			Size:            defaultBatchSize,
			IntervalSeconds: defaultBatchIntervalSeconds,
		},
		Generator: Generator{
			Sampler: defaultSampler,
		},
		Logging: Logging{
			Format:    defaultLogFormat,
			Level:     defaultLogLevel,
			Directory: defaultLogDir,
		},
	}
}
