// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков и выбора кода ответа по ошибке.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// ErrorResponse структура ошибки. Используется в аннотациях @Failure.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		case "min", "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max", "lte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

var statuses = []struct {
	err    error
	status int
}{
	{models.ErrUnauthenticated, http.StatusUnauthorized},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrSubscriptionRequired, http.StatusForbidden},
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrConflict, http.StatusConflict},
	{models.ErrValidation, http.StatusUnprocessableEntity},
	{models.ErrInvalidSignature, http.StatusBadRequest},
	{models.ErrUpstream, http.StatusBadGateway},
}

// StatusFor выбирает HTTP-код по доменной ошибке. Неизвестные ошибки дают 500.
func StatusFor(err error) int {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status
		}
	}
	return http.StatusInternalServerError
}

// Message текст ошибки для клиента: часть сообщения начиная с доменной ошибки,
// без префиксов операций. Внутренние ошибки не раскрываются.
func Message(err error) string {
	for _, s := range statuses {
		if !errors.Is(err, s.err) {
			continue
		}
		text := err.Error()
		if idx := strings.Index(text, s.err.Error()); idx >= 0 {
			return text[idx:]
		}
		return s.err.Error()
	}
	return "internal error"
}

// RenderError пишет ошибку с кодом StatusFor(err).
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	render.Status(r, StatusFor(err))
	render.JSON(w, r, Error(Message(err)))
}

// RenderStatus пишет ошибку с явным кодом.
func RenderStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, Error(msg))
}
