// Package checkout создаёт checkout-сессию у платёжного провайдера для выбранного тарифа.
package checkout

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

// Handler обрабатывает POST /api/payments/create-checkout.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает создание checkout-сессии.
type Service interface {
	CreateCheckout(ctx context.Context, user *models.User, packageID string, userCount int, originURL string) (*models.CheckoutResult, error)
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
// @Summary Создание checkout-сессии
// @Description Сумма считается на сервере: цена тарифа умножается на число пользователей.
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CheckoutRequest true "Тариф и адрес возврата"
// @Success 200 {object} models.CheckoutResult
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Не авторизован"
// @Failure 422 {object} response.ErrorResponse "Неизвестный тариф"
// @Failure 502 {object} response.ErrorResponse "Провайдер недоступен"
// @Router /api/payments/create-checkout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.checkout"

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

	var req models.CheckoutRequest
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

	res, err := h.service.CreateCheckout(r.Context(), user, req.PackageID, req.UserCount, req.OriginURL)
	if err != nil {
		log.Error("failed to create checkout session", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("checkout session created",
		slog.String("user_id", user.ID),
		slog.String("package_id", req.PackageID),
		slog.String("session_id", res.SessionID),
	)
	render.JSON(w, r, res)
}
