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

func (m *MockService) ListDepartments(ctx context.Context) ([]*models.Department, error) {
	args := m.Called(ctx)
	if res := args.Get(0); res != nil {
		return res.([]*models.Department), args.Error(1)
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
			name: "отделы",
			setupMock: func(m *MockService) {
				m.On("ListDepartments", mock.Anything).Return([]*models.Department{{ID: "d1", Name: "Assembly"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"name":"Assembly"`,
		},
		{
			name: "пусто",
			setupMock: func(m *MockService) {
				m.On("ListDepartments", mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "ошибка",
			setupMock: func(m *MockService) {
				m.On("ListDepartments", mock.Anything).Return(nil, errors.New("db down"))
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
			New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/departments", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
