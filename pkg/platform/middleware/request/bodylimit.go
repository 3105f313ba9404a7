package request

import (
	"net/http"
)

// DefaultBodyLimit covers every sign-in and persistence payload with room to spare.
const DefaultBodyLimit int64 = 64 << 10

// BodyLimit caps request bodies; reads past maxBytes fail and the connection is closed.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
