package assistant

import "github.com/fekuna/omnipos-inventory-service/internal/apperror"

var ErrNoQuery = apperror.Validation("No query provided").
	With("resolution", "Please provide a question or command").
	With("status", "error")

var ErrNoUpload = apperror.Validation("This chat session has no uploaded data.")

func ErrSessionNotFound(id int64) *apperror.Error {
	return apperror.NotFound("Chat session %d not found.", id)
}

// ErrGenerate reports a failed chat completion with the provider detail.
func ErrGenerate(err error) *apperror.Error {
	return apperror.Upstream("Failed to generate response", err).
		With("details", err.Error()).
		With("status", "error")
}

var ErrNoFile = apperror.Validation("No file uploaded.")
