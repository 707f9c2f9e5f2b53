package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context) ([]*models.WorkOrder, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.WorkOrder), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "заказ-наряды",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return([]*models.WorkOrder{
					{WOID: "WO-2025-0002", Status: models.StatusScheduled},
					{WOID: "WO-2025-0001", Status: models.StatusCompleted},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"wo_id":"WO-2025-0002"`,
		},
		{
			name: "пусто",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "ошибка",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/work-orders", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
