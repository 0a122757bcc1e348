package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedType = errors.New("unsupported file type")

// Row maps a lower-cased, trimmed header name to its cell value.
type Row map[string]string

// Read parses a CSV or XLSX document, picking the format from the file name.
// The first row is the header. Blank rows are skipped.
func Read(filename string, r io.Reader) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return readCSV(r)
	case ".xlsx", ".xlsm":
		return readXLSX(r)
	default:
		return nil, ErrUnsupportedType
	}
}

// MissingColumns returns the required names absent from the header.
func MissingColumns(rows []Row, required ...string) []string {
	if len(rows) == 0 {
		return required
	}
	var missing []string
	for _, col := range required {
		if _, ok := rows[0][col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

func readCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return toRows(records), nil
}

func readXLSX(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return toRows(records), nil
}

func toRows(records [][]string) []Row {
	if len(records) == 0 {
		return nil
	}
	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make(Row, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(rec) {
				row[name] = strings.TrimSpace(rec[i])
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
