package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

const userColumns = `id, username, email, password_hash, role, created_at, trial_start, is_trial_active`

// CreateUser сохраняет нового пользователя. Повтор username или email возвращает models.ErrConflict.
func (s *Storage) CreateUser(ctx context.Context, user models.User) error {
	const op = "storage.CreateUser"
	if err := checkContext(ctx, op); err != nil {
		return err
	}

	query := `INSERT INTO users (id, username, email, password_hash, role, created_at, trial_start, is_trial_active)
			  VALUES (:id, :username, :email, :password_hash, :role, :created_at, :trial_start, :is_trial_active)`
	if _, err := s.DB.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

// GetUserByUsername возвращает пользователя по его username.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.GetUserByUsername"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	if err := s.DB.GetContext(ctx, &u, query, username); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// GetUser возвращает пользователя по идентификатору.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	var u models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := s.DB.GetContext(ctx, &u, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &u, nil
}

// ListUsers возвращает всех пользователей, отсортированных по имени.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	result := []*models.User{}
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username`
	if err := s.DB.SelectContext(ctx, &result, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindUsersByTrialStart возвращает пользователей, чей пробный период начался в полуинтервале [from, to).
func (s *Storage) FindUsersByTrialStart(ctx context.Context, from, to time.Time) ([]*models.User, error) {
	const op = "storage.FindUsersByTrialStart"
	if err := checkContext(ctx, op); err != nil {
		return nil, err
	}

	result := []*models.User{}
	query := `SELECT ` + userColumns + ` FROM users
			  WHERE trial_start >= $1 AND trial_start < $2
			  ORDER BY trial_start`
	if err := s.DB.SelectContext(ctx, &result, query, from, to); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
