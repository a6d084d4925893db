// Package upload turns uploaded CSV and XLSX files into customer tables.
package upload

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Vivekb638/Real-Time-Churn-Prediction-System/internal/domain"
)

// DefaultMaxBytes caps an upload at 10 MiB
const DefaultMaxBytes int64 = 10 << 20

var (
	ErrUnsupportedFormat = errors.New("unsupported file type (expected .csv or .xlsx)")
	ErrMissingHeader     = errors.New("file has no header row")
	ErrTooLarge          = errors.New("file exceeds size limit")
)

// Parse reads an uploaded table. The format is chosen by the file extension and the first
// row is the header. Every failure is returned as a *domain.UploadFormatError.
func Parse(filename string, r io.Reader, maxBytes int64) (*domain.Table, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}

	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, &domain.UploadFormatError{Cause: fmt.Errorf("failed to read upload: %w", err)}
	}
	if int64(len(data)) > maxBytes {
		return nil, &domain.UploadFormatError{Cause: fmt.Errorf("%w: %d bytes", ErrTooLarge, maxBytes)}
	}

	var records [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		records, err = readCSV(data)
	case ".xlsx":
		records, err = readXLSX(data)
	default:
		err = ErrUnsupportedFormat
	}
	if err != nil {
		return nil, &domain.UploadFormatError{Cause: err}
	}

	table, err := buildTable(records)
	if err != nil {
		return nil, &domain.UploadFormatError{Cause: err}
	}
	return table, nil
}

func readCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return records, nil
}

// readXLSX reads the first sheet of the workbook
func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrMissingHeader
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func buildTable(records [][]string) (*domain.Table, error) {
	if len(records) == 0 || isBlank(records[0]) {
		return nil, ErrMissingHeader
	}

	columns := make([]string, len(records[0]))
	for i, name := range records[0] {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
	}

	table := &domain.Table{
		Columns: columns,
		Rows:    make([]domain.RawRecord, 0, len(records)-1),
	}

	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}

		row := make(domain.RawRecord, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			value := ""
			if i < len(record) {
				value = strings.TrimSpace(record[i])
			}
			row[col] = value
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
