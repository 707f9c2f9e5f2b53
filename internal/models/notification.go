package models

import "time"

// TrialReminder сообщение о скором окончании пробного периода.
type TrialReminder struct {
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	TrialEndsAt time.Time `json:"trial_ends_at"`
}

// PaymentReceipt сообщение об успешной оплате подписки.
type PaymentReceipt struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	SessionID   string    `json:"session_id"`
	PackageName string    `json:"package_name"`
	Amount      int64     `json:"amount"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paid_at"`
}

// Ключи маршрутизации уведомлений в обменнике notifications.
const (
	RoutingKeyTrialExpiring   = "trial.expiring"
	RoutingKeyPaymentComplete = "payment.completed"
)
