package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"cohortgen/internal/synth"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

// renderRecords shows the columns that fit a terminal; the full 19-column
// row only goes to sinks.
func renderRecords(records []synth.Record) string {
	headers := []string{"Patient", "Age", "Gender", "Admitted", "Diagnosis", "Stay", "Readmit", "BMI", "BP", "Insurance"}
	aligns := []columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft, alignLeft}

	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.PatientID,
			strconv.Itoa(r.Age),
			r.Gender,
			r.AdmissionDate.Format(synth.DateLayout),
			r.Diagnosis,
			fmt.Sprintf("%dd", r.LengthOfStay),
			yesNo(bool(r.Readmitted)),
			fmt.Sprintf("%.1f", r.BMI),
			r.BloodPressure.String(),
			r.Insurance,
		})
	}
	return renderTable(headers, rows, aligns)
}
