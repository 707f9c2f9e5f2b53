// Package update реализует HTTP-обработчик частичного обновления заказ-наряда.
//
// Применяются только переданные поля. Чек-лист, если передан, заменяется целиком.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает PUT /api/work-orders/{id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает обновление заказ-наряда.
type Service interface {
	Update(ctx context.Context, id string, patch models.WorkOrderUpdate, actor *models.User) (*models.WorkOrder, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновление заказ-наряда
// @Description Переход в Completed один раз проставляет completed_at.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Идентификатор заказ-наряда"
// @Param request body models.WorkOrderUpdate true "Изменяемые поля"
// @Success 200 {object} models.WorkOrder
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/work-orders/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workorder.update"

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

	id := chi.URLParam(r, "id")

	var patch models.WorkOrderUpdate
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(patch); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	wo, err := h.service.Update(r.Context(), id, patch, user)
	if err != nil {
		log.Error("failed to update work order", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("work order updated", slog.String("wo_id", wo.WOID), slog.String("status", string(wo.Status)))
	render.JSON(w, r, wo)
}
