package order

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var (
	ErrCustomerNameRequired = apperror.Validation("customer_name: This field is required.")
	ErrInvalidPhone         = apperror.Validation("telephone_number: Enter a valid phone number.")
	ErrInvalidStatus        = apperror.Validation("status: Must be one of: pending completed.")
)

func ErrNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Order %d not found.", id)
}

func ErrItemNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Order item %d not found.", id)
}
