// Package list отдаёт список оборудования, при необходимости одного отдела.
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

// Handler обрабатывает GET /api/machines.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает чтение оборудования.
type Service interface {
	ListMachines(ctx context.Context, departmentID string) ([]*models.Machine, error)
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список оборудования
// @Tags Machines
// @Produce json
// @Security BearerAuth
// @Param department_id query string false "Фильтр по отделу"
// @Success 200 {array} models.Machine
// @Router /api/machines [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.machine.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	departmentID := r.URL.Query().Get("department_id")
	machines, err := h.service.ListMachines(r.Context(), departmentID)
	if err != nil {
		log.Error("failed to list machines", slog.String("department_id", departmentID), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}
	if machines == nil {
		machines = []*models.Machine{}
	}
	render.JSON(w, r, machines)
}
