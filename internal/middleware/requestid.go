package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/sprout/internal/observability"
)

// MaxRequestIDLength bounds an accepted incoming X-Request-ID.
const MaxRequestIDLength = 128

// RequestID tags each request with an ID, echoed in X-Request-ID and
// carried in the request context. A well-formed incoming ID is kept;
// anything else is replaced by a random UUID.
func RequestID() func(http.Handler) http.Handler {
	return RequestIDWithGenerator(func() string {
		return uuid.NewString()
	})
}

// RequestIDWithGenerator is RequestID with a custom ID source.
func RequestIDWithGenerator(generator func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(HeaderXRequestID)
			if !validRequestID(id) {
				id = generator()
			}

			w.Header().Set(HeaderXRequestID, id)
			next.ServeHTTP(w, r.WithContext(observability.ContextWithRequestID(r.Context(), id)))
		})
	}
}

// validRequestID accepts non-empty IDs of letters, digits and "-_.:".
func validRequestID(id string) bool {
	if id == "" || len(id) > MaxRequestIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '-', c == '_', c == '.', c == ':':
		default:
			return false
		}
	}
	return true
}
