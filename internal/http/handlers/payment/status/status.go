// Package status сверяет локальную транзакцию с checkout-сессией провайдера
// и отдаёт клиенту её текущее состояние.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает GET /api/payments/status/{session_id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает сверку checkout-сессии.
type Service interface {
	Reconcile(ctx context.Context, user *models.User, sessionID string) (*models.CheckoutStatus, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус checkout-сессии
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param session_id path string true "Идентификатор сессии"
// @Success 200 {object} models.CheckoutStatus
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 404 {object} response.ErrorResponse "Сессия не найдена"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /api/payments/status/{session_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		log.Error("user identification missing")
		response.RenderError(w, r, models.ErrUnauthenticated)
		return
	}

	sessionID := chi.URLParam(r, "session_id")
	if sessionID == "" {
		response.RenderStatus(w, r, http.StatusBadRequest, "session id is required")
		return
	}

	res, err := h.service.Reconcile(r.Context(), user, sessionID)
	if err != nil {
		log.Error("failed to reconcile checkout session", slog.String("session_id", sessionID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, res)
}
