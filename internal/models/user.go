// Package models содержит доменные структуры сервиса: пользователей,
// справочники (отделы и оборудование), заказ-наряды и платёжные транзакции,
// а также общие ошибки, по которым HTTP-слой выбирает код ответа.
package models

import "time"

// Role роль пользователя в системе.
type Role string

const (
	// RoleAdmin администратор: управляет справочниками.
	RoleAdmin Role = "Admin"
	// RoleSupervisor руководитель службы обслуживания.
	RoleSupervisor Role = "Maintenance Supervisor"
)

// Valid сообщает, входит ли роль в список допустимых.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleSupervisor
}

// User представляет зарегистрированного пользователя системы.
//
// IsTrialActive хранится только для отображения: доступ всегда вычисляется
// заново по TrialStart и истории платежей.
type User struct {
	ID            string     `json:"id" db:"id"`
	Username      string     `json:"username" db:"username"`
	Email         string     `json:"email" db:"email"`
	Role          Role       `json:"role" db:"role"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	TrialStart    *time.Time `json:"trial_start" db:"trial_start"`
	IsTrialActive bool       `json:"is_trial_active" db:"is_trial_active"`
}

// RegisterRequest тело запроса на регистрацию.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     Role   `json:"role" validate:"required"`
}

// LoginRequest тело запроса на вход.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse ответ на регистрацию и вход.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user"`
}
