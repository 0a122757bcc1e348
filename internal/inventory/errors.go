package inventory

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var ErrInvalidType = apperror.Validation("transaction_type: Must be one of: restock sale.")

func ErrNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Inventory transaction %d not found.", id)
}
