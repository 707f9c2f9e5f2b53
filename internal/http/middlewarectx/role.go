package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/magabrotheeeer/equiptrack/internal/http/response"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// RequireRole пропускает только пользователей с одной из ролей roles.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				response.RenderError(w, r, models.ErrUnauthenticated)
				return
			}
			if !slices.Contains(roles, user.Role) {
				log.Warn("role not permitted", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
				response.RenderError(w, r, models.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
