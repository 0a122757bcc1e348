package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-inventory-service/internal/apperror"
	"github.com/fekuna/omnipos-inventory-service/pkg/logger"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error maps err onto a JSON error body. Errors without a client message are
// logged and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, log logger.ZapLogger, err error) {
	ae, ok := apperror.As(err)
	if !ok {
		log.Error("unhandled error",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		JSON(w, http.StatusInternalServerError, map[string]interface{}{"error": "Internal Server Error"})
		return
	}

	if ae.Err != nil {
		log.Warn("request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", ae.StatusCode()),
			zap.Error(ae.Err),
		)
	}

	body := make(map[string]interface{}, len(ae.Fields)+1)
	for k, v := range ae.Fields {
		body[k] = v
	}
	body["error"] = ae.Message
	JSON(w, ae.StatusCode(), body)
}

// DecodeJSON reads a JSON request body into dest. Read-only fields sent back
// by clients, such as id, are ignored.
func DecodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Validation("Request body is empty.")
		}
		return apperror.Validation("Invalid JSON body: %v", err)
	}
	return nil
}

// IDParam parses a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NotFound("Not found.")
	}
	return id, nil
}

// BoolQuery reads a boolean query parameter, treating anything unparsable as false.
func BoolQuery(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}

// IntQuery reads an integer query parameter with a fallback.
func IntQuery(r *http.Request, name string, fallback int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get(name)); err == nil {
		return v
	}
	return fallback
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": fmt.Sprintf("Method %q not allowed.", r.Method),
	})
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusNotFound, map[string]string{"error": "Not found."})
}
