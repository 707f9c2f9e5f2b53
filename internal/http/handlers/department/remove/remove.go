// Package remove реализует HTTP-обработчик удаления отдела.
//
// Отдел, на который ссылается оборудование, удалить нельзя: ответ 409.
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

// Handler обрабатывает DELETE /api/departments/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает удаление отдела.
type Service interface {
	DeleteDepartment(ctx context.Context, id string) error
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удаление отдела
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Идентификатор отдела"
// @Success 200 {object} map[string]string
// @Failure 404 {object} response.ErrorResponse "Отдел не найден"
// @Failure 409 {object} response.ErrorResponse "Отдел используется"
// @Router /api/departments/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.department.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id := chi.URLParam(r, "id")
	if err := h.service.DeleteDepartment(r.Context(), id); err != nil {
		log.Error("failed to delete department", slog.String("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("department deleted", slog.String("id", id))
	render.JSON(w, r, map[string]string{"message": "Department deleted successfully"})
}
