package equiptrack

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/streadway/amqp"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/equiptrack/internal/billing"
	"github.com/magabrotheeeer/equiptrack/internal/cache"
	"github.com/magabrotheeeer/equiptrack/internal/config"
	"github.com/magabrotheeeer/equiptrack/internal/lib/jwt"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/metrics"
	"github.com/magabrotheeeer/equiptrack/internal/migrations"
	"github.com/magabrotheeeer/equiptrack/internal/paymentprovider"
	"github.com/magabrotheeeer/equiptrack/internal/rabbitmq"
	authservice "github.com/magabrotheeeer/equiptrack/internal/services/auth"
	"github.com/magabrotheeeer/equiptrack/internal/services/entitlement"
	paymentservice "github.com/magabrotheeeer/equiptrack/internal/services/payment"
	referenceservice "github.com/magabrotheeeer/equiptrack/internal/services/reference"
	workorderservice "github.com/magabrotheeeer/equiptrack/internal/services/workorder"
	"github.com/magabrotheeeer/equiptrack/internal/storage/repository"
)

// App HTTP API EquipTrack.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New подключает хранилища, применяет миграции и собирает маршруты.
//
// RabbitMQ необязателен: без брокера квитанции об оплате не отправляются,
// остальное API работает.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	m, err := metrics.New(prometheus.DefaultRegisterer)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	app := &App{
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}

	catalog := billing.FromConfig(cfg.Billing)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := authservice.NewAuthService(db, jwtMaker)
	entitlementService := entitlement.New(db, catalog, nil)

	deps := paymentservice.Deps{
		Ledger:  db,
		Gateway: paymentprovider.NewClient(cfg.PaymentProvider),
		Catalog: catalog,
		Dedup:   cacheRedis,
		Metrics: m,
		Log:     logger,
	}
	if publisher := app.connectBroker(cfg.RabbitMQ); publisher != nil {
		deps.Publisher = publisher
	}
	paymentService := paymentservice.New(deps)

	referenceService := referenceservice.New(db, cacheRedis, logger)
	workOrderService := workorderservice.New(db, db, logger, m)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, Services{
		Auth:        authService,
		Entitlement: entitlementService,
		Payments:    paymentService,
		Reference:   referenceService,
		WorkOrders:  workOrderService,
		DB:          db,
		Metrics:     m,
		Limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst),
		CORSOrigins: cfg.CORSOrigins,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func (a *App) connectBroker(cfg config.RabbitMQ) *rabbitmq.Publisher {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		a.logger.Warn("RabbitMQ unavailable, payment receipts disabled", sl.Err(err))
		return nil
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotificationQueues())
	if err != nil {
		a.logger.Warn("failed to setup RabbitMQ channel, payment receipts disabled", sl.Err(err))
		_ = conn.Close()
		return nil
	}
	a.conn, a.ch = conn, ch
	return rabbitmq.NewPublisher(ch)
}

// Run запускает HTTP-сервер и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if a.ch != nil {
		if err := a.ch.Close(); err != nil {
			a.logger.Error("failed to close channel", sl.Err(err))
		}
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Error("failed to close connection", sl.Err(err))
		}
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Error("failed to close redis", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Error("failed to close database", sl.Err(err))
	}
}
