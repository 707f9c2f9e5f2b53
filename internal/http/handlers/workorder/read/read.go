// Package read реализует HTTP-обработчик получения заказ-наряда по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает GET /api/work-orders/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение заказ-наряда.
type Service interface {
	Get(ctx context.Context, id string) (*models.WorkOrder, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Заказ-наряд по ID
// @Tags WorkOrders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Идентификатор заказ-наряда"
// @Success 200 {object} models.WorkOrder
// @Failure 404 {object} response.ErrorResponse "Не найден"
// @Router /api/work-orders/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workorder.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	wo, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to read work order", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	render.JSON(w, r, wo)
}
