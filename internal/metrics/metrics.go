// Package metrics регистрирует доменные счётчики Prometheus.
//
// Все методы безопасно вызывать на nil *Metrics: в тестах сервисов метрики не нужны.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "equiptrack"

// Metrics набор счётчиков сервиса.
type Metrics struct {
	WorkOrdersCreated prometheus.Counter
	EntitlementChecks *prometheus.CounterVec
	CheckoutSessions  *prometheus.CounterVec
	WebhookEvents     *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New создаёт счётчики и регистрирует их в reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		WorkOrdersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "work_orders_created_total",
			Help:      "Number of created work orders.",
		}),
		EntitlementChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entitlement_checks_total",
			Help:      "Entitlement evaluations by resulting reason.",
		}, []string{"reason"}),
		CheckoutSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_sessions_total",
			Help:      "Checkout session creation attempts by result.",
		}, []string{"result"}),
		WebhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment provider webhook events by type and outcome.",
		}, []string{"type", "outcome"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status code.",
		}, []string{"method", "code"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	collectors := []prometheus.Collector{
		m.WorkOrdersCreated,
		m.EntitlementChecks,
		m.CheckoutSessions,
		m.WebhookEvents,
		m.HTTPRequests,
		m.HTTPDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordWorkOrderCreated учитывает созданный заказ-наряд.
func (m *Metrics) RecordWorkOrderCreated() {
	if m == nil {
		return
	}
	m.WorkOrdersCreated.Inc()
}

// RecordEntitlement учитывает результат проверки доступа.
func (m *Metrics) RecordEntitlement(reason string) {
	if m == nil {
		return
	}
	m.EntitlementChecks.WithLabelValues(reason).Inc()
}

// RecordCheckout учитывает попытку создания checkout-сессии.
func (m *Metrics) RecordCheckout(result string) {
	if m == nil {
		return
	}
	m.CheckoutSessions.WithLabelValues(result).Inc()
}

// RecordWebhook учитывает обработанное событие провайдера.
func (m *Metrics) RecordWebhook(eventType, outcome string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(eventType, outcome).Inc()
}

// Middleware считает HTTP-запросы и их длительность.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			next.ServeHTTP(w, r)
			return
		}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method).Observe(time.Since(start).Seconds())
	})
}
