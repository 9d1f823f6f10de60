package sink

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"cohortgen/internal/synth"
)

// NDJSON appends records as newline-delimited JSON, one object per line.
// The format needs no header, so resuming an existing dataset is a plain
// append.
type NDJSON struct {
	path   string
	file   *os.File
	writer *bufio.Writer
}

// NewNDJSON opens or creates the dataset at path.
func NewNDJSON(path string) (*NDJSON, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	return &NDJSON{path: path, file: file, writer: bufio.NewWriter(file)}, nil
}

func (s *NDJSON) Append(ctx context.Context, records []synth.Record) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := s.writer.Write(data); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if err := s.writer.WriteByte('\n'); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("flush records: %w", err)
	}
	return nil
}

func (s *NDJSON) Close() error {
	if err := s.writer.Flush(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("flush dataset %s: %w", s.path, err)
	}
	return s.file.Close()
}

func (s *NDJSON) Name() string { return "ndjson" }

func (s *NDJSON) Path() string { return s.path }
