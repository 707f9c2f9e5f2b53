// Package status отдаёт состояние доступа пользователя: пробный период,
// оплаченная подписка или истёкший доступ.
package status

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
	"github.com/magabrotheeeer/equiptrack/internal/services/entitlement"
)

// Handler обрабатывает GET /api/subscription/status.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service вычисляет доступ пользователя.
type Service interface {
	Evaluate(ctx context.Context, user *models.User) (entitlement.Entitlement, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статус подписки
// @Description Доступен и после окончания пробного периода, чтобы клиент мог предложить оплату.
// @Tags Subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} entitlement.Entitlement
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

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

	ent, err := h.service.Evaluate(r.Context(), user)
	if err != nil {
		log.Error("failed to evaluate entitlement", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	render.JSON(w, r, ent)
}
