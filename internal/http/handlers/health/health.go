// Package health отдаёт состояние сервиса для проб балансировщика.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response тело ответа health-check.
type Response struct {
	Status  string `json:"status" example:"ok"`
	Message string `json:"message" example:"EquipTrack API is running"`
}

// Handler обрабатывает GET /api/health.
type Handler struct {
	log *slog.Logger
	db  Pinger
}

// New создаёт Handler. db может быть nil, тогда проверяется только сам процесс.
func New(log *slog.Logger, db Pinger) *Handler {
	return &Handler{
		log: log,
		db:  db,
	}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} response.ErrorResponse "База данных недоступна"
// @Router /api/health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if h.db != nil {
		if err := h.db.Ping(r.Context()); err != nil {
			h.log.Error("database ping failed",
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				sl.Err(err),
			)
			response.RenderStatus(w, r, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}

	render.JSON(w, r, Response{Status: "ok", Message: "EquipTrack API is running"})
}
