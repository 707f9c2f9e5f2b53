// Package services находит пользователей, у которых скоро закончится пробный период,
// и ставит им напоминания в очередь.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/models"
	"github.com/magabrotheeeer/equiptrack/internal/services/entitlement"
)

// ReminderWindow за сколько до конца пробного периода отправляется напоминание.
const ReminderWindow = 24 * time.Hour

// UserRepository источник пользователей по дате начала пробного периода.
type UserRepository interface {
	FindUsersByTrialStart(ctx context.Context, from, to time.Time) ([]*models.User, error)
}

// Evaluator вычисляет доступ пользователя.
type Evaluator interface {
	Evaluate(ctx context.Context, user *models.User) (entitlement.Entitlement, error)
}

// Publisher отправляет уведомления.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// SchedulerService планировщик напоминаний.
type SchedulerService struct {
	users       UserRepository
	evaluator   Evaluator
	publisher   Publisher
	trialPeriod time.Duration
	log         *slog.Logger
	now         func() time.Time
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(users UserRepository, evaluator Evaluator, publisher Publisher,
	trialPeriod time.Duration, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		users:       users,
		evaluator:   evaluator,
		publisher:   publisher,
		trialPeriod: trialPeriod,
		log:         log,
		now:         time.Now,
	}
}

// RemindExpiringTrials публикует trial.expiring для пользователей, чей пробный период
// заканчивается в ближайшие ReminderWindow. Пользователи с оплаченной подпиской пропускаются.
// Возвращает число опубликованных напоминаний.
func (s *SchedulerService) RemindExpiringTrials(ctx context.Context) (int, error) {
	const op = "services.RemindExpiringTrials"
	log := s.log.With(slog.String("op", op))

	now := s.now().UTC()
	from := now.Add(-s.trialPeriod)
	users, err := s.users.FindUsersByTrialStart(ctx, from, from.Add(ReminderWindow))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if len(users) == 0 {
		log.Info("no expiring trials found")
		return 0, nil
	}

	sent := 0
	for _, user := range users {
		ent, err := s.evaluator.Evaluate(ctx, user)
		if err != nil {
			log.Error("failed to evaluate entitlement", slog.String("user_id", user.ID), sl.Err(err))
			continue
		}
		if ent.Reason != entitlement.ReasonTrial {
			continue
		}
		reminder := models.TrialReminder{
			UserID:      user.ID,
			Username:    user.Username,
			Email:       user.Email,
			TrialEndsAt: user.TrialStart.Add(s.trialPeriod),
		}
		if err := s.publisher.Publish(ctx, models.RoutingKeyTrialExpiring, reminder); err != nil {
			log.Error("failed to publish message", slog.String("user_id", user.ID), sl.Err(err))
			continue
		}
		sent++
	}
	log.Info("trial reminders published", slog.Int("found", len(users)), slog.Int("sent", sent))
	return sent, nil
}

// Run запускает RemindExpiringTrials по cron-расписанию spec и блокируется до отмены ctx.
func (s *SchedulerService) Run(ctx context.Context, spec string) error {
	const op = "services.Run"
	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		if _, err := s.RemindExpiringTrials(ctx); err != nil {
			s.log.Error("trial reminder run failed", sl.Err(err))
		}
	})
	if err != nil {
		return fmt.Errorf("%s: invalid schedule %q: %w", op, spec, err)
	}

	c.Start()
	s.log.Info("scheduler started", slog.String("spec", spec))
	<-ctx.Done()
	<-c.Stop().Done()
	s.log.Info("scheduler stopped")
	return nil
}
