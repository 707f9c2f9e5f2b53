// Package payment связывает checkout-провайдера с журналом транзакций:
// открывает сессии, сверяет их статус и обрабатывает webhook.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/equiptrack/internal/billing"
	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/metrics"
	"github.com/magabrotheeeer/equiptrack/internal/models"
	"github.com/magabrotheeeer/equiptrack/internal/paymentprovider"
)

// EventDedupTTL как долго помнится обработанное событие webhook.
const EventDedupTTL = 24 * time.Hour

// Ledger журнал платёжных транзакций.
type Ledger interface {
	CreateTransaction(ctx context.Context, t *models.PaymentTransaction) error
	GetTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	UpdateTransactionStatus(ctx context.Context, sessionID string,
		paymentStatus models.PaymentStatus, status models.TransactionStatus, at time.Time) (bool, error)
}

// Gateway checkout-провайдер.
type Gateway interface {
	CreateCheckoutSession(ctx context.Context, p paymentprovider.CheckoutSessionParams) (*paymentprovider.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (*paymentprovider.CheckoutSession, error)
	ParseWebhook(payload []byte, header string, now time.Time) (*paymentprovider.Event, error)
}

// Deduplicator помечает событие обработанным. Может быть nil.
type Deduplicator interface {
	MarkOnce(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Invalidate(ctx context.Context, key string) error
}

// Publisher отправляет уведомления. Может быть nil.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service платёжные сценарии.
type Service struct {
	ledger    Ledger
	gateway   Gateway
	catalog   *billing.Catalog
	dedup     Deduplicator
	publisher Publisher
	metrics   *metrics.Metrics
	log       *slog.Logger
	now       func() time.Time
}

// Deps зависимости Service. Dedup, Publisher и Metrics необязательны.
type Deps struct {
	Ledger    Ledger
	Gateway   Gateway
	Catalog   *billing.Catalog
	Dedup     Deduplicator
	Publisher Publisher
	Metrics   *metrics.Metrics
	Log       *slog.Logger
}

// New создаёт Service.
func New(d Deps) *Service {
	return &Service{
		ledger:    d.Ledger,
		gateway:   d.Gateway,
		catalog:   d.Catalog,
		dedup:     d.Dedup,
		publisher: d.Publisher,
		metrics:   d.Metrics,
		log:       d.Log,
		now:       time.Now,
	}
}

// Packages возвращает доступные тарифы.
func (s *Service) Packages() []billing.Package {
	return s.catalog.List()
}

// CreateCheckout открывает checkout-сессию на тариф packageID для userCount пользователей.
// Транзакция сохраняется в статусе pending/initiated до того, как клиент получит ссылку.
func (s *Service) CreateCheckout(ctx context.Context, user *models.User, packageID string, userCount int, originURL string) (*models.CheckoutResult, error) {
	const op = "payment.CreateCheckout"

	pkg, ok := s.catalog.Lookup(packageID)
	if !ok {
		s.metrics.RecordCheckout("invalid")
		return nil, fmt.Errorf("%s: %w: unknown package %q", op, models.ErrValidation, packageID)
	}
	if userCount < 1 {
		userCount = 1
	}
	origin := strings.TrimRight(originURL, "/")
	total := pkg.UnitAmount * int64(userCount)

	metadata := map[string]string{
		"user_id":      user.ID,
		"email":        user.Email,
		"package_id":   pkg.ID,
		"package_name": pkg.Name,
		"user_count":   strconv.Itoa(userCount),
		"unit_amount":  strconv.FormatInt(pkg.UnitAmount, 10),
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, paymentprovider.CheckoutSessionParams{
		SuccessURL:  origin + "/payment-success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:   origin + "/pricing",
		ProductName: pkg.Name,
		UnitAmount:  pkg.UnitAmount,
		Quantity:    userCount,
		Currency:    pkg.Currency,
		Metadata:    metadata,
	})
	if err != nil {
		s.metrics.RecordCheckout("error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now().UTC()
	tx := &models.PaymentTransaction{
		ID:            uuid.NewString(),
		SessionID:     session.ID,
		UserID:        user.ID,
		Email:         user.Email,
		Amount:        total,
		Currency:      pkg.Currency,
		PaymentStatus: models.PaymentPending,
		Status:        models.TransactionInitiated,
		PackageID:     pkg.ID,
		Metadata:      metadata,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.ledger.CreateTransaction(ctx, tx); err != nil {
		s.metrics.RecordCheckout("error")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.metrics.RecordCheckout("created")
	return &models.CheckoutResult{URL: session.URL, SessionID: session.ID}, nil
}

// Reconcile сверяет локальную транзакцию с состоянием сессии у провайдера.
// Чужая или неизвестная сессия возвращает models.ErrNotFound.
func (s *Service) Reconcile(ctx context.Context, user *models.User, sessionID string) (*models.CheckoutStatus, error) {
	const op = "payment.Reconcile"

	tx, err := s.ledger.GetTransactionBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if tx.UserID != user.ID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}

	session, err := s.gateway.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	paymentStatus, status := ledgerStatus(session)
	changed, err := s.ledger.UpdateTransactionStatus(ctx, sessionID, paymentStatus, status, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if changed && tx.PaymentStatus != models.PaymentPaid && paymentStatus == models.PaymentPaid {
		s.publishReceipt(ctx, tx)
	}

	return &models.CheckoutStatus{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
	}, nil
}

// HandleWebhook проверяет подпись и применяет событие к журналу.
// Повторная доставка события ничего не меняет.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	const op = "payment.HandleWebhook"
	log := s.log.With(slog.String("op", op))

	event, err := s.gateway.ParseWebhook(payload, signature, s.now())
	if err != nil {
		s.metrics.RecordWebhook("unknown", "rejected")
		return fmt.Errorf("%s: %w", op, err)
	}
	log = log.With(slog.String("event_id", event.ID), slog.String("type", event.Type))

	var target struct {
		payment models.PaymentStatus
		status  models.TransactionStatus
	}
	switch event.Type {
	case paymentprovider.EventCheckoutCompleted:
		target.payment, target.status = models.PaymentPaid, models.TransactionCompleted
	case paymentprovider.EventCheckoutExpired:
		target.payment, target.status = models.PaymentExpired, models.TransactionExpired
	default:
		log.Debug("ignoring webhook event")
		s.metrics.RecordWebhook(event.Type, "ignored")
		return nil
	}

	dedupKey := ""
	if s.dedup != nil && event.ID != "" {
		dedupKey = "webhook:event:" + event.ID
		first, err := s.dedup.MarkOnce(ctx, dedupKey, EventDedupTTL)
		switch {
		case err != nil:
			log.Warn("failed to deduplicate webhook event", sl.Err(err))
			dedupKey = ""
		case !first:
			log.Info("duplicate webhook event")
			s.metrics.RecordWebhook(event.Type, "duplicate")
			return nil
		}
	}

	if err := s.applyEvent(ctx, log, event.Data.Object.ID, target.payment, target.status); err != nil {
		if dedupKey != "" {
			if relErr := s.dedup.Invalidate(ctx, dedupKey); relErr != nil {
				log.Warn("failed to release webhook event mark", sl.Err(relErr))
			}
		}
		s.metrics.RecordWebhook(event.Type, "error")
		return fmt.Errorf("%s: %w", op, err)
	}
	s.metrics.RecordWebhook(event.Type, "applied")
	return nil
}

func (s *Service) applyEvent(ctx context.Context, log *slog.Logger, sessionID string,
	paymentStatus models.PaymentStatus, status models.TransactionStatus) error {
	tx, err := s.ledger.GetTransactionBySession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("webhook for unknown checkout session", slog.String("session_id", sessionID))
			return nil
		}
		return err
	}

	changed, err := s.ledger.UpdateTransactionStatus(ctx, sessionID, paymentStatus, status, s.now().UTC())
	if err != nil {
		return err
	}
	if changed && tx.PaymentStatus != models.PaymentPaid && paymentStatus == models.PaymentPaid {
		s.publishReceipt(ctx, tx)
	}
	return nil
}

func (s *Service) publishReceipt(ctx context.Context, tx *models.PaymentTransaction) {
	if s.publisher == nil {
		return
	}
	packageName := tx.Metadata["package_name"]
	if pkg, ok := s.catalog.Lookup(tx.PackageID); ok {
		packageName = pkg.Name
	}
	receipt := models.PaymentReceipt{
		UserID:      tx.UserID,
		Email:       tx.Email,
		SessionID:   tx.SessionID,
		PackageName: packageName,
		Amount:      tx.Amount,
		Currency:    tx.Currency,
		PaidAt:      s.now().UTC(),
	}
	if err := s.publisher.Publish(ctx, models.RoutingKeyPaymentComplete, receipt); err != nil {
		s.log.Error("failed to publish payment receipt", slog.String("session_id", tx.SessionID), sl.Err(err))
	}
}

// ledgerStatus переводит состояние сессии провайдера в статусы журнала.
func ledgerStatus(session *paymentprovider.CheckoutSession) (models.PaymentStatus, models.TransactionStatus) {
	var status models.TransactionStatus
	switch session.Status {
	case paymentprovider.SessionComplete:
		status = models.TransactionCompleted
	case paymentprovider.SessionExpired:
		status = models.TransactionExpired
	default:
		status = models.TransactionInitiated
	}

	switch session.PaymentStatus {
	case paymentprovider.PaymentPaid, paymentprovider.PaymentNoPaymentRequired:
		return models.PaymentPaid, status
	}
	if status == models.TransactionExpired {
		return models.PaymentExpired, status
	}
	return models.PaymentPending, status
}
