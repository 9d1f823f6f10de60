package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"cohortgen/internal/synth"
)

// CSV appends records to a comma-separated dataset. The header row is
// written once when the file is created and skipped when a run appends to
// an existing dataset.
type CSV struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSV opens or creates the dataset at path.
func NewCSV(path string) (*CSV, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("stat dataset %s: %w", path, err)
	}

	s := &CSV{path: path, file: file, writer: csv.NewWriter(file)}
	if info.Size() == 0 {
		if err := s.writer.Write(synth.Columns); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("write header: %w", err)
		}
		s.writer.Flush()
		if err := s.writer.Error(); err != nil {
			_ = file.Close()
			return nil, fmt.Errorf("flush header: %w", err)
		}
	}
	return s, nil
}

func (s *CSV) Append(ctx context.Context, records []synth.Record) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.writer.Write(record.CSVRow()); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		return fmt.Errorf("flush rows: %w", err)
	}
	return nil
}

func (s *CSV) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("flush dataset %s: %w", s.path, err)
	}
	return s.file.Close()
}

func (s *CSV) Name() string { return "csv" }

func (s *CSV) Path() string { return s.path }
