package middleware

import (
	"net/http"

	apperrors "houseboat/pkg/errors"
	httputil "houseboat/pkg/http"
)

// MaxRequestSize rejects bodies announced larger than limit and caps the
// rest with http.MaxBytesReader; the decoder reports the overflow.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.PayloadTooLarge(limit))
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
