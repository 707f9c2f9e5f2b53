package remove

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestRemoveHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{name: "удалён", id: "id-1", expectedStatus: http.StatusOK, expectedBody: `{"message":"Work order deleted successfully"}`},
		{name: "не найден", id: "id-2", err: fmt.Errorf("workorder.Delete: %w", models.ErrNotFound), expectedStatus: http.StatusNotFound, expectedBody: models.ErrNotFound.Error()},
		{name: "ошибка базы", id: "id-3", err: errors.New("db down"), expectedStatus: http.StatusInternalServerError, expectedBody: `internal error`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Delete", mock.Anything, tt.id).Return(tt.err)

			req := httptest.NewRequest(http.MethodDelete, "/api/work-orders/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
