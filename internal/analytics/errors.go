package analytics

import (
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
)

var (
	ErrNoData          = apperror.Validation("No data provided.")
	ErrUnsupportedFile = apperror.Validation("Unsupported file type. Upload a .csv or .xlsx file.")
)

// ErrMissingColumns reports spreadsheet columns that are required but absent.
func ErrMissingColumns(cols []string) *apperror.Error {
	return apperror.Validation("Missing required columns: %s", strings.Join(cols, ", ")).With("missing_columns", cols)
}
