package member

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const exportSheet = "Members"

func ParseFormat(value string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(value))); format {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseSpreadsheet picks the reader by file extension. Only the first sheet
// of a workbook is read.
func ParseSpreadsheet(filename string, r io.Reader) ([]ImportRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r)
	case ".xlsx", ".xlsm":
		return ParseXLSX(r)
	default:
		return nil, ErrUnsupportedFormat
	}
}

func ParseCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFromTable(records), nil
}

func ParseXLSX(r io.Reader) ([]ImportRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	records, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromTable(records), nil
}

// rowsFromTable treats the first record as the header row and drops rows
// with no content.
func rowsFromTable(records [][]string) []ImportRow {
	if len(records) == 0 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, cell := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(cell, "\ufeff"))
	}

	rows := make([]ImportRow, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(ImportRow, len(header))
		empty := true
		for i, cell := range record {
			if i >= len(header) || header[i] == "" {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell != "" {
				empty = false
			}
			row[header[i]] = cell
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows
}

// WriteExport encodes the rows with ExportColumns as the header.
func WriteExport(w io.Writer, format Format, rows []ExportRow) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, rows)
	case FormatXLSX:
		return writeXLSX(w, rows)
	default:
		return ErrUnsupportedFormat
	}
}

func writeCSV(w io.Writer, rows []ExportRow) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(ExportColumns); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row.Values()); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeXLSX(w io.Writer, rows []ExportRow) error {
	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName(book.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(ExportColumns))
	for i, column := range ExportColumns {
		header[i] = column
	}
	if err := book.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.Name,
			row.Mobile,
			row.BagNumber,
			row.BusNumber,
			row.PaymentStatus,
			row.PaymentMethod,
			row.ReceivedBy,
			row.Amount,
			row.Referral,
		}
		if err := book.SetSheetRow(exportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// ExportFilename is the download name for an export made on the given date.
func ExportFilename(format Format, date string) string {
	return "sabarimala-yatra-members-" + date + "." + string(format)
}
