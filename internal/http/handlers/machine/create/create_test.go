package create

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CreateMachine(ctx context.Context, req models.MachineRequest, actor *models.User) (*models.Machine, error) {
	args := m.Called(ctx, req, actor)
	if res := args.Get(0); res != nil {
		return res.(*models.Machine), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	admin := &models.User{ID: "admin-1", Role: models.RoleAdmin}
	req := models.MachineRequest{Name: "Press 4", DepartmentID: "d1"}

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "оборудование создано",
			body: `{"name":"Press 4","department_id":"d1"}`,
			setupMock: func(m *MockService) {
				m.On("CreateMachine", mock.Anything, req, admin).Return(&models.Machine{
					ID:             "m1",
					Name:           "Press 4",
					DepartmentID:   "d1",
					DepartmentName: "Assembly",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"department_name":"Assembly"`,
		},
		{
			name: "отдел не найден",
			body: `{"name":"Press 4","department_id":"d1"}`,
			setupMock: func(m *MockService) {
				m.On("CreateMachine", mock.Anything, req, admin).
					Return(nil, fmt.Errorf("reference.CreateMachine: department d1: %w", models.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   models.ErrNotFound.Error(),
		},
		{
			name:           "без отдела",
			body:           `{"name":"Press 4"}`,
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field DepartmentID is a required field`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			r := httptest.NewRequest(http.MethodPost, "/api/machines", bytes.NewBufferString(tt.body))
			r = r.WithContext(middlewarectx.WithUser(r.Context(), admin))
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, r)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
