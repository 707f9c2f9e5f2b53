// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/equiptrack/internal/lib/jwt"
	"github.com/magabrotheeeer/equiptrack/internal/lib/password"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// TokenType тип выдаваемого токена.
const TokenType = "bearer"

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя. Повтор username или email возвращает models.ErrConflict.
	CreateUser(ctx context.Context, user models.User) error
	// GetUserByUsername возвращает пользователя по имени или models.ErrNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// ListUsers возвращает всех пользователей.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		now:      time.Now,
	}
}

// Register создает пользователя с хэшированием пароля и выдаёт токен.
// Пробный период начинается в момент регистрации.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	const op = "services.Register"
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%s: %w: unknown role %q", op, models.ErrValidation, req.Role)
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, fmt.Errorf("%s: %w: password must be at most %d bytes", op, models.ErrValidation, password.MaxBytes)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now().UTC()
	user := models.User{
		ID:            uuid.NewString(),
		Username:      req.Username,
		Email:         req.Email,
		Role:          req.Role,
		PasswordHash:  hashed,
		CreatedAt:     now,
		TrialStart:    &now,
		IsTrialActive: true,
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.issue(&user)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.AuthResponse, error) {
	const op = "services.Login"
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	return s.issue(user)
}

// Authenticate проверяет токен и загружает его владельца.
// Токен пользователя, которого больше нет, считается недействительным.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	const op = "services.Authenticate"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrUnauthenticated, err)
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Username())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ListUsers возвращает пользователей для выбора исполнителя.
func (s *AuthService) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "services.ListUsers"
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func (s *AuthService) issue(user *models.User) (*models.AuthResponse, error) {
	const op = "services.issue"
	token, err := s.jwtMaker.GenerateToken(user.Username, string(user.Role), user.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.AuthResponse{
		AccessToken: token,
		TokenType:   TokenType,
		User:        user,
	}, nil
}
