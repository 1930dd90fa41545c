package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "houseboat/pkg/errors"
)

// DecodeJSON decodes the request body into v, rejecting unknown fields and
// trailing data.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.As(err, &maxBytesErr):
			return apperrors.PayloadTooLarge(maxBytesErr.Limit)
		case errors.Is(err, io.EOF):
			return apperrors.InvalidInput("request body is empty")
		case errors.As(err, &syntaxErr):
			return apperrors.InvalidInput(fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset))
		case errors.As(err, &typeErr):
			return apperrors.InvalidInput(fmt.Sprintf("invalid value for field %q", typeErr.Field))
		default:
			return apperrors.InvalidInput("invalid request body: " + err.Error())
		}
	}
	if dec.More() {
		return apperrors.InvalidInput("request body must contain a single JSON object")
	}
	return nil
}

// QueryDate parses a YYYY-MM-DD query parameter as a UTC date.
func QueryDate(r *http.Request, key string) (time.Time, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("%s query parameter is required", key))
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid %s parameter: %s", key, s))
	}
	return d, nil
}
