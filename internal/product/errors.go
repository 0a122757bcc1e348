package product

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var (
	ErrDuplicateName = apperror.Validation("product with this name already exists.")
	ErrInvalidValues = apperror.Validation("Price and quantity in stock must not be negative.")
)

func ErrNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Product %d not found.", id)
}
