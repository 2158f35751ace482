package middleware

import (
	"io"
	"net/http"

	"github.com/vyrodovalexey/sprout/internal/observability"
)

// DefaultMaxBodySize is the request body limit used when none is
// configured.
const DefaultMaxBodySize int64 = 10 << 20

// BodyLimit returns a middleware that limits the request body size.
// Requests declaring a larger Content-Length are rejected with 413;
// bodies without a declared length fail on read past the limit.
func BodyLimit(maxSize int64, logger observability.Logger) func(http.Handler) http.Handler {
	if maxSize <= 0 {
		maxSize = DefaultMaxBodySize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxSize {
				logger.Warn("request body too large",
					observability.Int64("content_length", r.ContentLength),
					observability.Int64("max_size", maxSize),
					observability.String("path", r.URL.Path),
				)

				GetMetrics().bodyLimitRejected.Inc()

				w.Header().Set(HeaderContentType, ContentTypeJSON)
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = io.WriteString(w, ErrRequestEntityTooLarge)
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				r.Body = &limitedReadCloser{
					ReadCloser: r.Body,
					remaining:  maxSize,
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limitedReadCloser wraps an io.ReadCloser and limits the number of bytes
// that can be read.
type limitedReadCloser struct {
	io.ReadCloser
	remaining int64
}

// Read reads up to len(p) bytes into p, respecting the remaining limit.
func (l *limitedReadCloser) Read(p []byte) (int, error) {
	if l.remaining <= 0 {
		// A body of exactly the limit ends here; anything more is too large.
		var probe [1]byte
		if n, err := l.ReadCloser.Read(probe[:]); n == 0 && err != nil {
			return 0, err
		}
		return 0, ErrBodyTooLarge
	}

	if int64(len(p)) > l.remaining {
		p = p[:l.remaining]
	}

	n, err := l.ReadCloser.Read(p)
	l.remaining -= int64(n)
	return n, err
}
