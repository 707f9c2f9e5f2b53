package remove

import (
	"context"
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

func (m *MockService) DeleteDepartment(ctx context.Context, id string) error {
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
		{name: "удалён", id: "d1", expectedStatus: http.StatusOK, expectedBody: `{"message":"Department deleted successfully"}`},
		{name: "не найден", id: "d2", err: fmt.Errorf("repository.DeleteDepartment: %w", models.ErrNotFound), expectedStatus: http.StatusNotFound, expectedBody: models.ErrNotFound.Error()},
		{name: "используется", id: "d3", err: fmt.Errorf("repository.DeleteDepartment: %w: department has machines", models.ErrConflict), expectedStatus: http.StatusConflict, expectedBody: `conflict: department has machines`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("DeleteDepartment", mock.Anything, tt.id).Return(tt.err)

			req := httptest.NewRequest(http.MethodDelete, "/api/departments/"+tt.id, nil)
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
