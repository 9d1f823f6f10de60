package sink

import (
	"context"
	"fmt"
	"path/filepath"

	"cohortgen/internal/config"
	"cohortgen/internal/synth"
)

// Sink appends batches of records to a single dataset file.
type Sink interface {
	// Append writes records to the dataset. Partial writes may remain on
	// error; callers decide whether to retry or abort the run.
	Append(ctx context.Context, records []synth.Record) error
	// Close flushes buffered data and releases the underlying file.
	Close() error
	// Name returns the format name for logs and status output.
	Name() string
	// Path returns the dataset file location.
	Path() string
}

// DatasetPath returns the file a format writes to under the configured
// output directory and prefix.
func DatasetPath(cfg *config.Config, format string) (string, error) {
	ext, err := extensionFor(format)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg.Output.Directory, cfg.Output.Prefix+ext), nil
}

func extensionFor(format string) (string, error) {
	switch format {
	case "csv":
		return ".csv", nil
	case "ndjson":
		return ".ndjson", nil
	case "sqlite":
		return ".db", nil
	case "xlsx":
		return ".xlsx", nil
	default:
		return "", fmt.Errorf("sink: unknown format %q", format)
	}
}

// ForFormats opens one sink per configured format. On error, sinks opened so
// far are closed before returning.
func ForFormats(cfg *config.Config) ([]Sink, error) {
	sinks := make([]Sink, 0, len(cfg.Output.Formats))
	for _, format := range cfg.Output.Formats {
		path, err := DatasetPath(cfg, format)
		if err != nil {
			closeAll(sinks)
			return nil, err
		}

		var s Sink
		switch format {
		case "csv":
			s, err = NewCSV(path)
		case "ndjson":
			s, err = NewNDJSON(path)
		case "sqlite":
			s, err = NewSQLite(path)
		case "xlsx":
			s, err = NewXLSX(path)
		}
		if err != nil {
			closeAll(sinks)
			return nil, fmt.Errorf("open %s sink: %w", format, err)
		}
		sinks = append(sinks, s)
	}
	return sinks, nil
}

func closeAll(sinks []Sink) {
	for _, s := range sinks {
		_ = s.Close()
	}
}
