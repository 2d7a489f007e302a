package request

import (
	"net/http"
)

// MaxBodyBytes caps listing, need and profile payloads.
const MaxBodyBytes int64 = 1 << 20

// BodyLimit rejects bodies whose declared length exceeds maxBytes with 413 and
// caps undeclared ones with http.MaxBytesReader, so decoding fails past the cap.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
