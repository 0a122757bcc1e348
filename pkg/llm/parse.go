package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	fenceOpen  = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\s*")
	fenceClose = regexp.MustCompile("(?s)\\s*```\\s*$")

	validate = validator.New()
)

// CleanResponse strips a surrounding markdown code fence from a model reply.
func CleanResponse(raw string) string {
	s := fenceOpen.ReplaceAllString(raw, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// DecodeStrict cleans raw and decodes it into dest. Unknown fields, trailing
// data and failed `validate` tags are all errors. Slices of structs are
// validated element by element.
func DecodeStrict(raw string, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader([]byte(CleanResponse(raw))))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("decode model output: %w", err)
	}
	if dec.More() {
		return errors.New("decode model output: trailing data after JSON value")
	}
	return validateValue(reflect.ValueOf(dest))
}

func validateValue(v reflect.Value) error {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Struct:
		if err := validate.Struct(v.Interface()); err != nil {
			return fmt.Errorf("validate model output: %w", err)
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := validateValue(v.Index(i)); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return nil
}
