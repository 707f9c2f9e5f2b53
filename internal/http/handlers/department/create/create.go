// Package create реализует HTTP-обработчик создания отдела.
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

// Handler обрабатывает POST /api/departments.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание отдела.
type Service interface {
	CreateDepartment(ctx context.Context, name string, actor *models.User) (*models.Department, error)
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
// @Summary Создание отдела
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.DepartmentRequest true "Отдел"
// @Success 200 {object} models.Department
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 403 {object} response.ErrorResponse "Нет прав или подписки"
// @Failure 409 {object} response.ErrorResponse "Отдел уже существует"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /api/departments [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.department.create"

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

	var req models.DepartmentRequest
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

	dept, err := h.service.CreateDepartment(r.Context(), req.Name, user)
	if err != nil {
		log.Error("failed to create department", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("department created", slog.String("id", dept.ID), slog.String("name", dept.Name))
	render.JSON(w, r, dept)
}
