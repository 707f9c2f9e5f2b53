package health

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		db             Pinger
		expectedStatus int
		expectedBody   string
	}{
		{name: "без базы", db: nil, expectedStatus: http.StatusOK, expectedBody: `"status":"ok"`},
		{name: "база доступна", db: pingerFunc(func(context.Context) error { return nil }), expectedStatus: http.StatusOK, expectedBody: `"message":"EquipTrack API is running"`},
		{name: "база недоступна", db: pingerFunc(func(context.Context) error { return errors.New("conn refused") }), expectedStatus: http.StatusServiceUnavailable, expectedBody: `{"status":"Error","error":"database unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			New(logger, tt.db).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}
