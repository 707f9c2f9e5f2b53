// Package webhook принимает уведомления платёжного провайдера о завершении
// и истечении checkout-сессий.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
)

// SignatureHeader заголовок с подписью тела запроса.
const SignatureHeader = "Stripe-Signature"

// MaxBodyBytes ограничение на размер тела webhook.
const MaxBodyBytes = 64 << 10

// Handler обрабатывает POST /api/webhook/stripe.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает обработку webhook.
type Service interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Webhook платёжного провайдера
// @Description Тело читается без разбора: подпись считается по исходным байтам.
// @Tags Payments
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Подпись t=<unix>,v1=<hex>"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorResponse "Неверная подпись"
// @Failure 413 {object} response.ErrorResponse "Слишком большое тело"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/webhook/stripe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.RenderStatus(w, r, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		response.RenderStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.HandleWebhook(r.Context(), payload, r.Header.Get(SignatureHeader)); err != nil {
		log.Error("webhook rejected", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, map[string]bool{"received": true})
}
