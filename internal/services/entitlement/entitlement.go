// Package entitlement вычисляет права доступа пользователя к платным разделам.
//
// Доступ никогда не хранится: он пересчитывается при каждом обращении по
// пользователю, последней оплаченной транзакции и каталогу тарифов.
package entitlement

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/billing"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Reason причина, по которой доступ выдан или запрещён.
type Reason string

const (
	ReasonSubscribed Reason = "subscribed"
	ReasonTrial      Reason = "trial"
	ReasonExpired    Reason = "expired"
)

// Entitlement результат проверки доступа. Ровно одна причина истинна.
type Entitlement struct {
	HasAccess          bool       `json:"has_active_subscription"`
	IsTrial            bool       `json:"is_trial"`
	TrialDaysRemaining int        `json:"trial_days_remaining"`
	SubscriptionType   *string    `json:"subscription_type"`
	Reason             Reason     `json:"reason"`
	ExpiresAt          *time.Time `json:"expires_at"`
}

// Evaluate решает, есть ли у пользователя доступ в момент now.
//
// latestPaid это самая свежая (по updated_at) оплаченная и завершённая транзакция
// пользователя или nil. Транзакция с тарифом, которого нет в каталоге, игнорируется.
func Evaluate(now time.Time, user *models.User, latestPaid *models.PaymentTransaction, catalog *billing.Catalog) Entitlement {
	if latestPaid.Qualifies() {
		if pkg, ok := catalog.Lookup(latestPaid.PackageID); ok {
			expiry := latestPaid.UpdatedAt.Add(pkg.Duration())
			if now.Before(expiry) {
				name := pkg.Name
				return Entitlement{
					HasAccess:        true,
					SubscriptionType: &name,
					Reason:           ReasonSubscribed,
					ExpiresAt:        &expiry,
				}
			}
		}
	}

	if user == nil || user.TrialStart == nil {
		return Entitlement{Reason: ReasonExpired}
	}

	trialEnd := user.TrialStart.Add(catalog.TrialPeriod())
	if now.After(trialEnd) {
		return Entitlement{Reason: ReasonExpired, ExpiresAt: &trialEnd}
	}

	return Entitlement{
		HasAccess:          true,
		IsTrial:            true,
		TrialDaysRemaining: int(trialEnd.Sub(now) / (24 * time.Hour)),
		Reason:             ReasonTrial,
		ExpiresAt:          &trialEnd,
	}
}

// PaymentRepository источник оплаченных транзакций.
type PaymentRepository interface {
	// GetLatestPaidTransaction возвращает самую свежую оплаченную транзакцию или nil, если её нет.
	GetLatestPaidTransaction(ctx context.Context, userID string) (*models.PaymentTransaction, error)
}

// Service вычисляет доступ по данным из хранилища.
type Service struct {
	payments PaymentRepository
	catalog  *billing.Catalog
	now      func() time.Time
}

// New создаёт Service. Если now равен nil, используется time.Now.
func New(payments PaymentRepository, catalog *billing.Catalog, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		payments: payments,
		catalog:  catalog,
		now:      now,
	}
}

// Evaluate загружает последнюю оплаченную транзакцию пользователя и вычисляет доступ.
func (s *Service) Evaluate(ctx context.Context, user *models.User) (Entitlement, error) {
	const op = "entitlement.Evaluate"
	tx, err := s.payments.GetLatestPaidTransaction(ctx, user.ID)
	if err != nil {
		return Entitlement{}, fmt.Errorf("%s: %w", op, err)
	}
	return Evaluate(s.now().UTC(), user, tx, s.catalog), nil
}
