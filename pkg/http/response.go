package http

import (
	"encoding/json"
	"net/http"

	apperrors "houseboat/pkg/errors"
)

type SuccessResponse struct {
	Data any `json:"data,omitempty"`
}

// WriteJSON writes data with the given status. The returned error can only
// be logged: the header is already sent.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(data)
}

// WriteError renders err as an ErrorResponse. Errors that are not an
// AppError become a generic internal error.
func WriteError(w http.ResponseWriter, err error) error {
	appErr := apperrors.AsAppError(err)
	return WriteJSON(w, appErr.StatusCode(), appErr.Response())
}

func WriteSuccess(w http.ResponseWriter, data any) error {
	return WriteJSON(w, http.StatusOK, SuccessResponse{Data: data})
}
