package stockalert

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var ErrAlreadyOpen = apperror.Validation("This product already has an open stock alert.")

func ErrNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Stock alert %d not found.", id)
}
