package service

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/phrazzld/ledger-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ExportFormat names a report file format.
type ExportFormat string

const (
	FormatCSV  ExportFormat = "csv"
	FormatXLSX ExportFormat = "xlsx"
)

// Valid reports whether f is a supported format.
func (f ExportFormat) Valid() bool {
	return f == FormatCSV || f == FormatXLSX
}

// ReportExport is a rendered report file.
type ReportExport struct {
	Filename    string
	ContentType string
	Body        []byte
}

const exportSheet = "Report"

var exportHeader = []string{"Account Name", "Account balance", "Total Expenses", "Total Budget"}

func renderReport(reportID string, data domain.ReportData, format ExportFormat) (*ReportExport, error) {
	switch format {
	case FormatCSV:
		body, err := renderCSV(data)
		if err != nil {
			return nil, err
		}
		return &ReportExport{
			Filename:    "report-" + reportID + ".csv",
			ContentType: "text/csv",
			Body:        body,
		}, nil
	case FormatXLSX:
		body, err := renderXLSX(data)
		if err != nil {
			return nil, err
		}
		return &ReportExport{
			Filename:    "report-" + reportID + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        body,
		}, nil
	}
	return nil, ErrUnsupportedFormat
}

func renderCSV(data domain.ReportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, a := range data.Accounts {
		row := []string{a.Name, a.Balance.StringFixed(2), a.Expenses.StringFixed(2), a.Budgets.StringFixed(2)}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(data domain.ReportData) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	for i, a := range data.Accounts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			a.Name,
			a.Balance.InexactFloat64(),
			a.Expenses.InexactFloat64(),
			a.Budgets.InexactFloat64(),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
