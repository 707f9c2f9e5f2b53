package paymentprovider

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// SignatureTolerance максимальный возраст подписи webhook.
const SignatureTolerance = 5 * time.Minute

// ParseWebhook проверяет заголовок подписи и разбирает событие.
//
// Заголовок имеет вид "t=<unix>,v1=<hex>", где hex это HMAC-SHA256 от "<t>.<body>".
// Любая ошибка проверки возвращается как models.ErrInvalidSignature.
func (c *Client) ParseWebhook(payload []byte, header string, now time.Time) (*Event, error) {
	const op = "paymentprovider.ParseWebhook"

	if err := verifySignature(payload, header, c.webhookSecret, now); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrInvalidSignature, err)
	}
	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, models.ErrValidation, err)
	}
	return &event, nil
}

func verifySignature(payload []byte, header, secret string, now time.Time) error {
	if secret == "" {
		return errors.New("webhook secret is not configured")
	}
	var (
		timestamp  int64
		signatures []string
	)
	for _, part := range strings.Split(header, ",") {
		key, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		if !ok {
			continue
		}
		switch key {
		case "t":
			ts, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("bad timestamp: %w", err)
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, value)
		}
	}
	if timestamp == 0 || len(signatures) == 0 {
		return errors.New("malformed signature header")
	}
	if age := now.Sub(time.Unix(timestamp, 0)); age > SignatureTolerance || age < -SignatureTolerance {
		return errors.New("timestamp outside tolerance")
	}

	expected := computeSignature(payload, timestamp, secret)
	for _, sig := range signatures {
		got, err := hex.DecodeString(sig)
		if err != nil {
			continue
		}
		if hmac.Equal(got, expected) {
			return nil
		}
	}
	return errors.New("no matching signature")
}

func computeSignature(payload []byte, timestamp int64, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(strconv.FormatInt(timestamp, 10)))
	mac.Write([]byte("."))
	mac.Write(payload)
	return mac.Sum(nil)
}

// SignPayload строит заголовок подписи для payload. Используется в тестах и локальной отладке webhook.
func SignPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(computeSignature(payload, ts, secret)))
}
