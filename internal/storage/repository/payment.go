package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

type paymentRow struct {
	ID            string    `db:"id"`
	SessionID     string    `db:"session_id"`
	UserID        string    `db:"user_id"`
	Email         string    `db:"email"`
	Amount        int64     `db:"amount"`
	Currency      string    `db:"currency"`
	PaymentStatus string    `db:"payment_status"`
	Status        string    `db:"status"`
	PackageID     string    `db:"package_id"`
	Metadata      []byte    `db:"metadata"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const paymentColumns = `id, session_id, user_id, email, amount, currency, payment_status, status,
	package_id, metadata, created_at, updated_at`

func (r paymentRow) toModel() (*models.PaymentTransaction, error) {
	tx := &models.PaymentTransaction{
		ID:            r.ID,
		SessionID:     r.SessionID,
		UserID:        r.UserID,
		Email:         r.Email,
		Amount:        r.Amount,
		Currency:      r.Currency,
		PaymentStatus: models.PaymentStatus(r.PaymentStatus),
		Status:        models.TransactionStatus(r.Status),
		PackageID:     r.PackageID,
		Metadata:      map[string]string{},
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &tx.Metadata); err != nil {
			return nil, fmt.Errorf("decode metadata: %w", err)
		}
	}
	return tx, nil
}

// CreateTransaction сохраняет транзакцию по новой checkout-сессии.
// Повторная запись с тем же session_id ничего не меняет.
func (s *Storage) CreateTransaction(ctx context.Context, t *models.PaymentTransaction) error {
	const op = "storage.CreateTransaction"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	metadata := t.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	row := paymentRow{
		ID:            t.ID,
		SessionID:     t.SessionID,
		UserID:        t.UserID,
		Email:         t.Email,
		Amount:        t.Amount,
		Currency:      t.Currency,
		PaymentStatus: string(t.PaymentStatus),
		Status:        string(t.Status),
		PackageID:     t.PackageID,
		Metadata:      metadataJSON,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
	query := `INSERT INTO payment_transactions (` + paymentColumns + `)
			  VALUES (:id, :session_id, :user_id, :email, :amount, :currency, :payment_status, :status,
			      :package_id, :metadata, :created_at, :updated_at)
			  ON CONFLICT (session_id) DO NOTHING`
	if _, err = s.DB.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetTransactionBySession возвращает транзакцию по идентификатору checkout-сессии.
func (s *Storage) GetTransactionBySession(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	const op = "storage.GetTransactionBySession"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE session_id = $1`
	if err := s.DB.GetContext(ctx, &row, query, sessionID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	tx, err := row.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}

// UpdateTransactionStatus выставляет статусы транзакции по session_id.
//
// Строка меняется (вместе с updated_at) только если хотя бы один статус отличается,
// поэтому повторная доставка того же события не сдвигает срок подписки.
// Возвращает true, если строка была изменена.
func (s *Storage) UpdateTransactionStatus(ctx context.Context, sessionID string,
	paymentStatus models.PaymentStatus, status models.TransactionStatus, at time.Time) (bool, error) {
	const op = "storage.UpdateTransactionStatus"
	if err := checkContext(ctx, op); err != nil {
		return false, err
	}

	query := `UPDATE payment_transactions
			  SET payment_status = $2, status = $3, updated_at = $4
			  WHERE session_id = $1 AND (payment_status <> $2 OR status <> $3)`
	res, err := s.DB.ExecContext(ctx, query, sessionID, string(paymentStatus), string(status), at)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// GetLatestPaidTransaction возвращает самую свежую оплаченную и завершённую транзакцию
// пользователя или nil, если таких нет.
func (s *Storage) GetLatestPaidTransaction(ctx context.Context, userID string) (*models.PaymentTransaction, error) {
	const op = "storage.GetLatestPaidTransaction"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var row paymentRow
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions
			  WHERE user_id = $1 AND payment_status = $2 AND status = $3
			  ORDER BY updated_at DESC
			  LIMIT 1`
	err := s.DB.GetContext(ctx, &row, query, userID, string(models.PaymentPaid), string(models.TransactionCompleted))
	if err != nil {
		if errors.Is(mapError(err), models.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	tx, err := row.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tx, nil
}
