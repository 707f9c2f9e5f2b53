// Package me возвращает профиль текущего пользователя.
package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Handler обрабатывает GET /api/auth/me.
type Handler struct {
	log *slog.Logger
}

// New создаёт Handler.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Router /api/auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	user, ok := middlewarectx.UserFromContext(r.Context())
	if !ok {
		h.log.Error("user identification missing",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		response.RenderError(w, r, models.ErrUnauthenticated)
		return
	}
	render.JSON(w, r, user)
}
