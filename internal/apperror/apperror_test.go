package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{Validation("bad"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Unauthenticated("nope"), http.StatusUnauthorized},
		{Upstream("down", errors.New("dial")), http.StatusInternalServerError},
		{Parse("not json", errors.New("eof")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.StatusCode(), tt.err.Message)
	}
}

func TestAsThroughWrapping(t *testing.T) {
	base := Validation("Not enough stock for %s.", "Widget")
	wrapped := fmt.Errorf("create item: %w", base)

	ae, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "Not enough stock for Widget.", ae.Message)
	assert.True(t, IsKind(wrapped, KindValidation))
	assert.True(t, errors.Is(wrapped, Validation("Not enough stock for Widget.")))
}

func TestParseCarriesRawResponse(t *testing.T) {
	err := Parse("```json\n{oops", errors.New("unexpected EOF"))
	assert.Equal(t, "```json\n{oops", err.Fields["raw_response"])
	assert.Contains(t, err.Error(), "unexpected EOF")
}

func TestWithDoesNotMutateSentinel(t *testing.T) {
	sentinel := Validation("No query provided")
	extended := sentinel.With("status", "error")

	assert.Nil(t, sentinel.Fields)
	assert.Equal(t, "error", extended.Fields["status"])
}
