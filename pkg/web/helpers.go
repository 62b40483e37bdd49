package web

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// ErrorResponse is the uniform body of every failed request.
// Errors is only present for validation failures.
type ErrorResponse struct {
	Timestamp time.Time         `json:"timestamp"`
	Status    int               `json:"status"`
	Error     string            `json:"error"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// NewErrorResponse builds an ErrorResponse for the given status, using the standard reason phrase.
func NewErrorResponse(status int, message string) ErrorResponse {
	return ErrorResponse{
		Timestamp: time.Now().UTC(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
	}
}

func RespondJSON(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if payload == nil {
		w.WriteHeader(status)
		return
	}

	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Error encoding response to JSON", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(response)
}

// RespondText writes a plain text body.
func RespondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}

func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	RespondJSON(w, logger, status, NewErrorResponse(status, message))
}

// RespondValidationError writes a 400 response carrying per-field messages.
func RespondValidationError(w http.ResponseWriter, logger *slog.Logger, fieldErrors map[string]string) {
	body := NewErrorResponse(http.StatusBadRequest, "Validation failed")
	body.Errors = fieldErrors
	RespondJSON(w, logger, http.StatusBadRequest, body)
}

// BadParameterMessage is the client message for a path or query value of the wrong shape.
func BadParameterMessage(name, value string) string {
	return fmt.Sprintf("Invalid value '%s' for parameter '%s'", value, name)
}
