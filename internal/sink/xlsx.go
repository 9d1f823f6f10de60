package sink

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/xuri/excelize/v2"

	"cohortgen/internal/synth"
)

const sheetAdmissions = "Admissions"

// XLSX appends records to a spreadsheet. The workbook is saved after every
// batch so an interrupted run keeps everything appended so far.
type XLSX struct {
	path    string
	file    *excelize.File
	nextRow int
}

// NewXLSX opens or creates the workbook at path.
func NewXLSX(path string) (*XLSX, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat dataset %s: %w", path, err)
		}
		return createWorkbook(path)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	rows, err := file.GetRows(sheetAdmissions)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("read sheet %s: %w", sheetAdmissions, err)
	}
	if len(rows) == 0 {
		s := &XLSX{path: path, file: file, nextRow: 1}
		if err := s.writeHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
		return s, nil
	}
	return &XLSX{path: path, file: file, nextRow: len(rows) + 1}, nil
}

func createWorkbook(path string) (*XLSX, error) {
	file := excelize.NewFile()
	index, err := file.NewSheet(sheetAdmissions)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("create sheet %s: %w", sheetAdmissions, err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	s := &XLSX{path: path, file: file, nextRow: 1}
	if err := s.writeHeader(); err != nil {
		_ = file.Close()
		return nil, err
	}
	if err := file.SaveAs(path); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("save dataset %s: %w", path, err)
	}
	return s, nil
}

func (s *XLSX) writeHeader() error {
	for col, column := range synth.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, s.nextRow)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := s.file.SetCellValue(sheetAdmissions, cell, column); err != nil {
			return fmt.Errorf("write header cell %s: %w", cell, err)
		}
	}
	s.nextRow++
	return nil
}

func (s *XLSX) Append(ctx context.Context, records []synth.Record) error {
	for _, record := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		for col, value := range record.CellValues() {
			cell, err := excelize.CoordinatesToCellName(col+1, s.nextRow)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := s.file.SetCellValue(sheetAdmissions, cell, value); err != nil {
				return fmt.Errorf("write cell %s: %w", cell, err)
			}
		}
		s.nextRow++
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("save dataset %s: %w", s.path, err)
	}
	return nil
}

func (s *XLSX) Close() error {
	if err := s.file.SaveAs(s.path); err != nil {
		_ = s.file.Close()
		return fmt.Errorf("save dataset %s: %w", s.path, err)
	}
	return s.file.Close()
}

func (s *XLSX) Name() string { return "xlsx" }

func (s *XLSX) Path() string { return s.path }
