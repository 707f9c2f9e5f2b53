package models

import "errors"

var (
	// ErrUnauthenticated токен отсутствует, повреждён или истёк.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials неверная пара логин/пароль.
	ErrInvalidCredentials = errors.New("incorrect username or password")
	// ErrForbidden роль пользователя не позволяет выполнить операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrSubscriptionRequired пробный период истёк и нет оплаченной подписки.
	ErrSubscriptionRequired = errors.New("subscription required")
	// ErrNotFound запись не найдена.
	ErrNotFound = errors.New("record not found")
	// ErrConflict нарушение уникальности или ссылочной целостности.
	ErrConflict = errors.New("conflict")
	// ErrValidation запрос не прошёл проверку.
	ErrValidation = errors.New("validation failed")
	// ErrUpstream платёжный провайдер недоступен или отклонил запрос.
	ErrUpstream = errors.New("payment provider error")
	// ErrInvalidSignature подпись webhook не прошла проверку.
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
