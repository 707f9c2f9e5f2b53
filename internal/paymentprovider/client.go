// Package paymentprovider клиент REST API checkout-провайдера (совместим со Stripe Checkout)
// и проверка подписи его webhook.
package paymentprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/equiptrack/internal/config"
	"github.com/magabrotheeeer/equiptrack/internal/models"
)

// Client клиент checkout API.
type Client struct {
	secretKey     string
	webhookSecret string
	apiURL        string
	httpClient    *http.Client
}

// NewClient создаёт клиент по секции payment_provider конфига.
func NewClient(cfg config.PaymentProvider) *Client {
	return &Client{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		apiURL:        strings.TrimRight(cfg.APIURL, "/"),
		httpClient:    &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, form url.Values) (*http.Request, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	return req, nil
}

// do выполняет запрос и декодирует ответ. Сетевые ошибки и ответы не 2xx
// оборачиваются в models.ErrUpstream.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrUpstream, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Error.Message != "" {
			return fmt.Errorf("%w: %s: %s", models.ErrUpstream, resp.Status, apiErr.Error.Message)
		}
		return fmt.Errorf("%w: unexpected status: %s", models.ErrUpstream, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", models.ErrUpstream, err)
	}
	return nil
}

// CreateCheckoutSession открывает checkout-сессию на одну позицию.
func (c *Client) CreateCheckoutSession(ctx context.Context, p CheckoutSessionParams) (*CheckoutSession, error) {
	const op = "paymentprovider.CreateCheckoutSession"

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", p.SuccessURL)
	form.Set("cancel_url", p.CancelURL)
	form.Set("line_items[0][price_data][currency]", p.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(p.UnitAmount, 10))
	form.Set("line_items[0][price_data][product_data][name]", p.ProductName)
	form.Set("line_items[0][quantity]", strconv.Itoa(p.Quantity))
	for k, v := range p.Metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/v1/checkout/sessions", form)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}

// GetCheckoutSession возвращает текущее состояние сессии.
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	const op = "paymentprovider.GetCheckoutSession"

	req, err := c.newRequest(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var session CheckoutSession
	if err := c.do(req, &session); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &session, nil
}
