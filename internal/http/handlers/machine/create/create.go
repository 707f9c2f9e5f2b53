// Package create реализует HTTP-обработчик создания оборудования.
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

// Handler обрабатывает POST /api/machines.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание оборудования.
type Service interface {
	CreateMachine(ctx context.Context, req models.MachineRequest, actor *models.User) (*models.Machine, error)
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
// @Summary Создание оборудования
// @Tags Machines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.MachineRequest true "Оборудование"
// @Success 200 {object} models.Machine
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Отдел не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/machines [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.machine.create"

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

	var req models.MachineRequest
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

	machine, err := h.service.CreateMachine(r.Context(), req, user)
	if err != nil {
		log.Error("failed to create machine", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("machine created", slog.String("id", machine.ID), slog.String("department_id", machine.DepartmentID))
	render.JSON(w, r, machine)
}
