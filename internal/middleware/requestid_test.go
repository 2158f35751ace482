package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vyrodovalexey/sprout/internal/observability"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
	}{
		{name: "generates new request ID"},
		{name: "keeps existing request ID", existing: "existing-request-id-123"},
		{name: "replaces malformed request ID", existing: "bad id\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var captured string
			handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				captured = observability.RequestIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
			if tt.existing != "" {
				req.Header.Set(HeaderXRequestID, tt.existing)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			header := rec.Header().Get(HeaderXRequestID)
			assert.Equal(t, header, captured)
			if !validRequestID(tt.existing) {
				assert.Len(t, header, 36)
			} else {
				assert.Equal(t, tt.existing, header)
			}
		})
	}
}

func TestRequestIDWithGenerator(t *testing.T) {
	t.Parallel()

	handler := RequestIDWithGenerator(func() string { return "fixed" })(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "fixed", rec.Header().Get(HeaderXRequestID))
}

func TestValidRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		id   string
		want bool
	}{
		{id: "", want: false},
		{id: "abc-123_x.y:z", want: true},
		{id: "with space", want: false},
		{id: "quote\"", want: false},
		{id: strings.Repeat("a", MaxRequestIDLength), want: true},
		{id: strings.Repeat("a", MaxRequestIDLength+1), want: false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, validRequestID(tt.id), tt.id)
	}
}
