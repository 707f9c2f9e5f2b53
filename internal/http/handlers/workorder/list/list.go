// Package list отдаёт все заказ-наряды, новые первыми.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает GET /api/work-orders.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение заказ-нарядов.
type Service interface {
	List(ctx context.Context) ([]*models.WorkOrder, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список заказ-нарядов
// @Tags WorkOrders
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.WorkOrder
// @Failure 403 {object} response.ErrorResponse "Нет подписки"
// @Router /api/work-orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workorder.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	orders, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list work orders", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if orders == nil {
		orders = []*models.WorkOrder{}
	}

	log.Debug("work orders listed", slog.Int("count", len(orders)))
	render.JSON(w, r, orders)
}
