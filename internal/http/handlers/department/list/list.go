// Package list отдаёт список отделов.
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

// Handler обрабатывает GET /api/departments.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение отделов.
type Service interface {
	ListDepartments(ctx context.Context) ([]*models.Department, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список отделов
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Department
// @Failure 403 {object} response.ErrorResponse "Нет подписки"
// @Router /api/departments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.department.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	departments, err := h.service.ListDepartments(r.Context())
	if err != nil {
		log.Error("failed to list departments", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if departments == nil {
		departments = []*models.Department{}
	}
	render.JSON(w, r, departments)
}
