package category

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

func ErrNotFound(name string) *apperror.Error {
	return apperror.NotFound("Category %q not found.", name)
}
