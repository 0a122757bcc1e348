package order

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone parses an international phone number and returns it in
// E.164 form. Numbers must carry their country code.
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrInvalidPhone
	}
	num, err := phonenumbers.Parse(raw, "")
	if err != nil || !phonenumbers.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}
