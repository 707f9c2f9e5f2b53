// Package create реализует HTTP-обработчик создания заказ-наряда.
//
// Идентификатор WO-YYYY-NNNN, статус, заявитель и отметки времени назначаются
// сервером; клиент передаёт только описание работы.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает POST /api/work-orders.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис заказ-нарядов
	validate *validator.Validate // Валидатор входных данных
}

// Service описывает создание заказ-наряда.
type Service interface {
	Create(ctx context.Context, req models.WorkOrderCreate, requester *models.User) (*models.WorkOrder, error)
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
// @Summary Создание заказ-наряда
// @Description Статус нового заказ-наряда всегда Scheduled, приоритет по умолчанию Medium.
// @Tags WorkOrders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.WorkOrderCreate true "Заказ-наряд"
// @Success 200 {object} models.WorkOrder
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 403 {object} response.ErrorResponse "Нет подписки"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/work-orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.workorder.create"

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

	var req models.WorkOrderCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.RenderStatus(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	wo, err := h.service.Create(r.Context(), req, user)
	if err != nil {
		log.Error("failed to create work order", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("work order created", slog.String("wo_id", wo.WOID), slog.String("requested_by", user.ID))
	render.JSON(w, r, wo)
}
