package webhook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
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

func (m *MockService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	args := m.Called(ctx, payload, signature)
	return args.Error(0)
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	body := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	tests := []struct {
		name           string
		body           []byte
		signature      string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:      "событие принято",
			body:      body,
			signature: "t=1,v1=abc",
			setupMock: func(m *MockService) {
				m.On("HandleWebhook", mock.Anything, body, "t=1,v1=abc").Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"received":true}`,
		},
		{
			name:      "неверная подпись",
			body:      body,
			signature: "t=1,v1=bad",
			setupMock: func(m *MockService) {
				m.On("HandleWebhook", mock.Anything, body, "t=1,v1=bad").
					Return(fmt.Errorf("paymentprovider.ParseWebhook: %w", models.ErrInvalidSignature))
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   models.ErrInvalidSignature.Error(),
		},
		{
			name:      "ошибка хранилища",
			body:      body,
			signature: "t=1,v1=abc",
			setupMock: func(m *MockService) {
				m.On("HandleWebhook", mock.Anything, body, "t=1,v1=abc").Return(errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal error`,
		},
		{
			name:           "слишком большое тело",
			body:           bytes.Repeat([]byte("a"), MaxBodyBytes+1),
			signature:      "t=1,v1=abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   `request body too large`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(tt.body))
			req.Header.Set(SignatureHeader, tt.signature)
			w := httptest.NewRecorder()
			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
