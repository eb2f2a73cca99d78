package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"go-rest-auth-starter/internal/service"
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, r *http.Request, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{Code: status, Message: message})
}

// FromError renders a service error with its own status code. Anything that is
// not a *service.Error becomes an opaque 500.
func FromError(w http.ResponseWriter, r *http.Request, err error) {
	if e, ok := service.AsError(err); ok {
		Error(w, r, e.Code, e.Message)
		return
	}
	var jsonErr *json.SyntaxError
	if errors.As(err, &jsonErr) {
		Error(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	slog.ErrorContext(r.Context(), "unhandled error", "error", err)
	Error(w, r, http.StatusInternalServerError, "Internal Server Error")
}
