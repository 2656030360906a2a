package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVExporter renders a finalized day as a flat sheet, one row per student.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV bytes with columns day, roll_no, name, status.
func (e *CSVExporter) Render(report DayReport) ([]byte, error) {
	if report.Day == "" {
		return nil, fmt.Errorf("csv report requires a day")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write([]string{"day", "roll_no", "name", "status"}); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.Present {
		if err := writer.Write([]string{report.Day, row.RollNo, row.Name, "present"}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	for _, row := range report.Absent {
		if err := writer.Write([]string{report.Day, row.RollNo, row.Name, "absent"}); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
