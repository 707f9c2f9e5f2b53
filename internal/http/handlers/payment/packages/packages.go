// Package packages отдаёт каталог тарифов для страницы оплаты.
package packages

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/equiptrack/internal/billing"
)

// Handler обрабатывает GET /api/payments/packages.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service источник тарифов.
type Service interface {
	Packages() []billing.Package
}

// New создаёт Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Тарифы
// @Tags Payments
// @Produce json
// @Success 200 {array} billing.Package
// @Router /api/payments/packages [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.service.Packages())
}
