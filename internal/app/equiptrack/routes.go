// Package equiptrack собирает HTTP API: маршруты, middleware и зависимости.
package equiptrack

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/auth/register"
	departmentcreate "github.com/magabrotheeeer/equiptrack/internal/http/handlers/department/create"
	departmentlist "github.com/magabrotheeeer/equiptrack/internal/http/handlers/department/list"
	departmentremove "github.com/magabrotheeeer/equiptrack/internal/http/handlers/department/remove"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/health"
	machinecreate "github.com/magabrotheeeer/equiptrack/internal/http/handlers/machine/create"
	machinelist "github.com/magabrotheeeer/equiptrack/internal/http/handlers/machine/list"
	machineremove "github.com/magabrotheeeer/equiptrack/internal/http/handlers/machine/remove"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/payment/checkout"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/payment/packages"
	paymentstatus "github.com/magabrotheeeer/equiptrack/internal/http/handlers/payment/status"
	"github.com/magabrotheeeer/equiptrack/internal/http/handlers/payment/webhook"
	subscriptionstatus "github.com/magabrotheeeer/equiptrack/internal/http/handlers/subscription/status"
	userlist "github.com/magabrotheeeer/equiptrack/internal/http/handlers/users/list"
	workordercreate "github.com/magabrotheeeer/equiptrack/internal/http/handlers/workorder/create"
	workorderlist "github.com/magabrotheeeer/equiptrack/internal/http/handlers/workorder/list"
	workorderread "github.com/magabrotheeeer/equiptrack/internal/http/handlers/workorder/read"
	workorderremove "github.com/magabrotheeeer/equiptrack/internal/http/handlers/workorder/remove"
	workorderupdate "github.com/magabrotheeeer/equiptrack/internal/http/handlers/workorder/update"
	"github.com/magabrotheeeer/equiptrack/internal/http/middlewarectx"
	"github.com/magabrotheeeer/equiptrack/internal/metrics"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// AuthService регистрация, вход и проверка токенов.
type AuthService interface {
	register.Service
	login.Service
	userlist.Service
	middlewarectx.Authenticator
}

// PaymentService checkout, сверка и webhook.
type PaymentService interface {
	checkout.Service
	paymentstatus.Service
	webhook.Service
	packages.Service
}

// ReferenceService отделы и оборудование.
type ReferenceService interface {
	departmentcreate.Service
	departmentlist.Service
	departmentremove.Service
	machinecreate.Service
	machinelist.Service
	machineremove.Service
}

// WorkOrderService заказ-наряды.
type WorkOrderService interface {
	workordercreate.Service
	workorderlist.Service
	workorderread.Service
	workorderupdate.Service
	workorderremove.Service
}

// Services зависимости маршрутов. DB, Metrics и Limiter необязательны,
// при пустом CORSOrigins CORS-заголовки не выставляются.
type Services struct {
	Auth        AuthService
	Entitlement middlewarectx.EntitlementChecker
	Payments    PaymentService
	Reference   ReferenceService
	WorkOrders  WorkOrderService
	DB          health.Pinger
	Metrics     *metrics.Metrics
	Limiter     *rate.Limiter
	CORSOrigins []string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	if len(s.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}
	if s.Limiter != nil {
		r.Use(middlewarectx.RateLimitMiddleware(logger, s.Limiter))
	}

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Get("/health", health.New(logger, s.DB).ServeHTTP)
		r.Post("/auth/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, s.Auth).ServeHTTP)
		r.Get("/payments/packages", packages.New(logger, s.Payments).ServeHTTP)
		r.Post("/webhook/stripe", webhook.New(logger, s.Payments).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(s.Auth, logger))

			r.Get("/auth/me", me.New(logger).ServeHTTP)
			r.Get("/users", userlist.New(logger, s.Auth).ServeHTTP)
			r.Get("/subscription/status", subscriptionstatus.New(logger, s.Entitlement).ServeHTTP)
			r.Post("/payments/create-checkout", checkout.New(logger, s.Payments).ServeHTTP)
			r.Get("/payments/status/{session_id}", paymentstatus.New(logger, s.Payments).ServeHTTP)

			// Пробный период или подписка
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.SubscriptionMiddleware(s.Entitlement, s.Metrics, logger))

				r.Get("/departments", departmentlist.New(logger, s.Reference).ServeHTTP)
				r.Get("/machines", machinelist.New(logger, s.Reference).ServeHTTP)

				r.Post("/work-orders", workordercreate.New(logger, s.WorkOrders).ServeHTTP)
				r.Get("/work-orders", workorderlist.New(logger, s.WorkOrders).ServeHTTP)
				r.Get("/work-orders/{id}", workorderread.New(logger, s.WorkOrders).ServeHTTP)
				r.Put("/work-orders/{id}", workorderupdate.New(logger, s.WorkOrders).ServeHTTP)
				r.Delete("/work-orders/{id}", workorderremove.New(logger, s.WorkOrders).ServeHTTP)

				// Только администраторы
				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RequireRole(logger, models.RoleAdmin))

					r.Post("/departments", departmentcreate.New(logger, s.Reference).ServeHTTP)
					r.Delete("/departments/{id}", departmentremove.New(logger, s.Reference).ServeHTTP)
					r.Post("/machines", machinecreate.New(logger, s.Reference).ServeHTTP)
					r.Delete("/machines/{id}", machineremove.New(logger, s.Reference).ServeHTTP)
				})
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
