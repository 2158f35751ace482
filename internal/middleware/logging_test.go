package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vyrodovalexey/sprout/internal/observability"
)

func TestLogging(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		target   string
		status   int
		body     string
		explicit bool
	}{
		{name: "implicit ok", method: http.MethodGet, target: "/users?page=1", status: http.StatusOK, body: `{"users":[]}`},
		{name: "created", method: http.MethodPost, target: "/users", status: http.StatusCreated, body: `{"id":1}`, explicit: true},
		{name: "not found", method: http.MethodGet, target: "/a/b/c/d/e", status: http.StatusNotFound, explicit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			core, logs := observer.New(zapcore.InfoLevel)
			logger := observability.NewZapLogger(zap.New(core))

			handler := RequestIDWithGenerator(func() string { return "req-1" })(
				Logging(logger, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					if tt.explicit {
						w.WriteHeader(tt.status)
					}
					_, _ = w.Write([]byte(tt.body))
				})),
			)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.status, rec.Code)

			entries := logs.FilterMessage("http request").All()
			require.Len(t, entries, 1)
			fields := entries[0].ContextMap()
			assert.Equal(t, tt.method, fields["method"])
			assert.Equal(t, int64(tt.status), fields["status"])
			assert.Equal(t, int64(len(tt.body)), fields["size"])
			assert.Equal(t, "192.0.2.1", fields["client_ip"])
			assert.Equal(t, "req-1", fields["request_id"])
		})
	}
}

func TestLogging_LevelByStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status int
		want   zapcore.Level
	}{
		{status: http.StatusOK, want: zapcore.InfoLevel},
		{status: http.StatusFound, want: zapcore.InfoLevel},
		{status: http.StatusNotFound, want: zapcore.WarnLevel},
		{status: http.StatusServiceUnavailable, want: zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		core, logs := observer.New(zapcore.DebugLevel)
		handler := Logging(observability.NewZapLogger(zap.New(core)), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, tt.want, logs.All()[0].Level, tt.status)
	}
}

func TestStatusRecorder(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}

	_, _ = sr.Write([]byte("abc"))
	sr.WriteHeader(http.StatusTeapot)
	sr.Flush()

	assert.Equal(t, http.StatusOK, sr.status, "status is fixed by the first write")
	assert.Equal(t, 3, sr.size)
	assert.True(t, rec.Flushed)
	assert.Same(t, rec, sr.Unwrap())
}
