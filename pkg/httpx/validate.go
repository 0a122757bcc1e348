package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names rather than Go field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks `validate` struct tags and reports the first failure as a
// validation error.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation("Invalid request.")
	}
	fe := verrs[0]
	return apperror.Validation("%s", describe(fe)).With("field", fe.Field())
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: This field is required.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s: Ensure this field has at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("%s: Ensure this value is greater than or equal to %s.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s: Ensure this value is greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s: Ensure this value is greater than or equal to %s.", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s: Enter a valid email address.", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s: Must be one of: %s.", fe.Field(), fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s: Must match %s.", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s: Invalid value.", fe.Field())
	}
}
