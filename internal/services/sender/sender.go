// Package services отправляет письма по сообщениям из очередей уведомлений.
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/equiptrack/internal/lib/sl"
	"github.com/magabrotheeeer/equiptrack/internal/lib/smtp"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// SenderService формирует и отправляет письма.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{
		transport: transport,
		log:       log,
	}
}

// SendTrialReminder обрабатывает сообщение trial.expiring.
func (s *SenderService) SendTrialReminder(body []byte) error {
	const op = "services.SendTrialReminder"
	var message models.TrialReminder
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if message.Email == "" {
		return fmt.Errorf("%s: %w", op, errors.New("message without recipient"))
	}

	subject := "Your EquipTrack trial ends soon"
	bodyText := fmt.Sprintf("Hello, %s!\r\n\r\n"+
		"Your EquipTrack trial ends on %s (UTC).\r\n"+
		"Choose a plan on the pricing page to keep access to work orders, machines and departments.\r\n",
		message.Username, message.TrialEndsAt.UTC().Format("January 2, 2006 15:04"))

	if err := s.sendEmail([]string{message.Email}, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SendPaymentReceipt обрабатывает сообщение payment.completed.
func (s *SenderService) SendPaymentReceipt(body []byte) error {
	const op = "services.SendPaymentReceipt"
	var message models.PaymentReceipt
	if err := json.Unmarshal(body, &message); err != nil {
		return fmt.Errorf("%s: error unmarshalling message: %w", op, err)
	}
	if message.Email == "" {
		return fmt.Errorf("%s: %w", op, errors.New("message without recipient"))
	}

	subject := "EquipTrack payment received"
	bodyText := fmt.Sprintf("Thank you for your payment!\r\n\r\n"+
		"Plan: %s\r\n"+
		"Amount: %s %s\r\n"+
		"Reference: %s\r\n"+
		"Paid at: %s (UTC)\r\n",
		message.PackageName,
		FormatAmount(message.Amount), strings.ToUpper(message.Currency),
		message.SessionID,
		message.PaidAt.UTC().Format("January 2, 2006 15:04"))

	if err := s.sendEmail([]string{message.Email}, subject, bodyText); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// FormatAmount печатает сумму в минимальных единицах как десятичную: 2999 -> "29.99".
func FormatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func (s *SenderService) sendEmail(to []string, subject, bodyText string) error {
	from := s.transport.GetSMTPUser()
	msg := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"UTF-8\"",
		"",
		bodyText,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(from); err != nil {
		s.log.Error("failed to set MAIL FROM", slog.String("from", from), sl.Err(err))
		return err
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", slog.String("recipient", addr), sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", slog.Any("to", to))
	return nil
}
