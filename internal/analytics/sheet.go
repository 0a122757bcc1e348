package analytics

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/analytics/dto"
	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/spreadsheet"
)

var forecastColumns = []string{"product_name", "category", "price", "stock", "sales_last_month"}

// ReadSheet parses an uploaded CSV or XLSX file and checks its header.
func ReadSheet(filename string, r io.Reader, required ...string) ([]spreadsheet.Row, error) {
	rows, err := spreadsheet.Read(filename, r)
	if err != nil {
		if errors.Is(err, spreadsheet.ErrUnsupportedType) {
			return nil, ErrUnsupportedFile
		}
		return nil, apperror.Validation("Could not read file: %v", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	if missing := spreadsheet.MissingColumns(rows, required...); len(missing) > 0 {
		return nil, ErrMissingColumns(missing)
	}
	return rows, nil
}

// ForecastRowsFromSheet reads /inventory-forecast/ rows from a spreadsheet.
func ForecastRowsFromSheet(filename string, r io.Reader) ([]dto.ForecastRow, error) {
	rows, err := ReadSheet(filename, r, forecastColumns...)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ForecastRow, 0, len(rows))
	for i, row := range rows {
		fr := dto.ForecastRow{
			ProductName: row["product_name"],
			Category:    row["category"],
		}
		line := i + 2
		if fr.ProductName == "" {
			return nil, apperror.Validation("Row %d: product_name is required.", line)
		}
		if fr.Price, err = Number(row, "price", line); err != nil {
			return nil, err
		}
		if fr.Stock, err = Number(row, "stock", line); err != nil {
			return nil, err
		}
		if fr.SalesLastMonth, err = Number(row, "sales_last_month", line); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, nil
}

// Number parses a non-negative numeric cell. Blank cells count as zero. line
// is the 1-based spreadsheet line used in the error message.
func Number(row spreadsheet.Row, col string, line int) (float64, error) {
	raw := strings.TrimSpace(strings.NewReplacer(",", "", "$", "").Replace(row[col]))
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		return 0, apperror.Validation("Row %d: %s must be a non-negative number.", line, col)
	}
	return v, nil
}
