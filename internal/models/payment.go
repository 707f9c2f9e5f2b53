package models

import "time"

// PaymentStatus состояние оплаты по транзакции.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
	PaymentExpired PaymentStatus = "expired"
)

// TransactionStatus жизненный цикл checkout-сессии.
type TransactionStatus string

const (
	TransactionInitiated TransactionStatus = "initiated"
	TransactionCompleted TransactionStatus = "completed"
	TransactionExpired   TransactionStatus = "expired"
)

// PaymentTransaction попытка оплаты через checkout-сессию провайдера.
// Записи никогда не удаляются; доступ определяет самая свежая оплаченная.
type PaymentTransaction struct {
	ID            string            `json:"id"`
	SessionID     string            `json:"session_id"`
	UserID        string            `json:"user_id"`
	Email         string            `json:"email"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	Status        TransactionStatus `json:"status"`
	PackageID     string            `json:"package_id"`
	Metadata      map[string]string `json:"metadata"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// Qualifies сообщает, может ли транзакция давать доступ (оплачена и завершена).
func (t *PaymentTransaction) Qualifies() bool {
	return t != nil && t.PaymentStatus == PaymentPaid && t.Status == TransactionCompleted
}

// CheckoutRequest тело запроса на создание checkout-сессии.
type CheckoutRequest struct {
	PackageID string `json:"package_id" validate:"required"`
	OriginURL string `json:"origin_url" validate:"required,url"`
	UserCount int    `json:"user_count" validate:"omitempty,gte=1,lte=1000"`
}

// CheckoutResult ответ на создание checkout-сессии.
type CheckoutResult struct {
	URL       string `json:"checkout_url"`
	SessionID string `json:"session_id"`
}

// CheckoutStatus состояние checkout-сессии для клиента.
type CheckoutStatus struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	AmountTotal   int64  `json:"amount_total"`
	Currency      string `json:"currency"`
}
