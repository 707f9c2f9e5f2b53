package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/metrics"
	"github.com/magabrotheeeer/equiptrack/internal/models"
	"github.com/magabrotheeeer/equiptrack/internal/services/entitlement"
)

// EntitlementChecker вычисляет доступ пользователя.
type EntitlementChecker interface {
	Evaluate(ctx context.Context, user *models.User) (entitlement.Entitlement, error)
}

// SubscriptionMiddleware пропускает запрос, только если у пользователя действует
// пробный период или оплаченная подписка. Иначе 403 "subscription required".
// Должен стоять после JWTMiddleware.
func SubscriptionMiddleware(checker EntitlementChecker, m *metrics.Metrics, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.SubscriptionMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			user, ok := UserFromContext(r.Context())
			if !ok {
				log.Error("user identification missing")
				response.RenderError(w, r, models.ErrUnauthenticated)
				return
			}

			ent, err := checker.Evaluate(r.Context(), user)
			if err != nil {
				log.Error("failed to evaluate entitlement", sl.Err(err))
				response.RenderError(w, r, err)
				return
			}
			m.RecordEntitlement(string(ent.Reason))

			if !ent.HasAccess {
				log.Info("access denied", slog.String("user_id", user.ID), slog.String("reason", string(ent.Reason)))
				response.RenderError(w, r, models.ErrSubscriptionRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
