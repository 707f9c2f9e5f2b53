package paymentprovider

// Статусы checkout-сессии на стороне провайдера.
const (
	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"

	PaymentPaid              = "paid"
	PaymentUnpaid            = "unpaid"
	PaymentNoPaymentRequired = "no_payment_required"
)

// Типы событий webhook, которые обрабатывает сервис.
const (
	EventCheckoutCompleted = "checkout.session.completed"
	EventCheckoutExpired   = "checkout.session.expired"
)

// CheckoutSessionParams параметры новой checkout-сессии.
type CheckoutSessionParams struct {
	SuccessURL  string
	CancelURL   string
	ProductName string
	UnitAmount  int64
	Quantity    int
	Currency    string
	Metadata    map[string]string
}

// CheckoutSession checkout-сессия провайдера.
type CheckoutSession struct {
	ID            string            `json:"id"`
	URL           string            `json:"url"`
	Status        string            `json:"status"`
	PaymentStatus string            `json:"payment_status"`
	AmountTotal   int64             `json:"amount_total"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

// Event событие webhook. Для событий checkout в Data.Object лежит сессия.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object CheckoutSession `json:"object"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
