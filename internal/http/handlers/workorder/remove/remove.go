// Package remove реализует HTTP-обработчик удаления заказ-наряда.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
)

// Handler обрабатывает DELETE /api/work-orders/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление заказ-наряда.
type Service interface {
	Delete(ctx context.Context, id string) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление заказ-наряда
// @Tags WorkOrders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Идентификатор заказ-наряда"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorResponse "Не найден"
// @Router /api/work-orders/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workorder.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), id); err != nil {
		log.Error("failed to delete work order", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("work order deleted", slog.String("id", id))
	render.JSON(w, r, map[string]string{"message": "Work order deleted successfully"})
}
