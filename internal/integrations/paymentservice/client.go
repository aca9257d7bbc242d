// Package paymentservice HTTP-клиент платёжного сервиса.
//
// Ядро инвентаря не проводит платежи само: перед подтверждением
// бронирования оно спрашивает платёжный сервис о статусе оплаты.
// Недоступность платёжного сервиса не роняет ядро — вызывающая сторона
// получает ErrServiceDegraded и отказывает в подтверждении, бронирование
// остаётся pending.
package paymentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	// ErrPaymentNotFound возвращается, когда платёж по бронированию не найден
	ErrPaymentNotFound = errors.New("paymentservice: payment not found")

	// ErrServiceDegraded возвращается, когда платёжный сервис недоступен
	// или отвечает ошибкой
	ErrServiceDegraded = errors.New("paymentservice: service unavailable")
)

// PaymentStatus статус платежа на стороне платёжного сервиса
type PaymentStatus string

const (
	StatusPending  PaymentStatus = "pending"
	StatusPaid     PaymentStatus = "paid"
	StatusFailed   PaymentStatus = "failed"
	StatusRefunded PaymentStatus = "refunded"
)

// Payment платёж по бронированию
type Payment struct {
	BookingID int64         `json:"bookingId"`
	Status    PaymentStatus `json:"status"`
	Amount    string        `json:"amount"`
	Currency  string        `json:"currency"`
	PaidAt    *time.Time    `json:"paidAt,omitempty"`
}

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client HTTP-клиент платёжного сервиса
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// NewClient создает новый клиент платёжного сервиса
func NewClient(baseURL string, timeout time.Duration, logger Logger) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// GetPaymentStatus возвращает платёж по ID бронирования
func (c *Client) GetPaymentStatus(ctx context.Context, bookingID int64) (*Payment, error) {
	url := fmt.Sprintf("%s/api/v1/payments/by-booking/%d", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrServiceDegraded, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("GetPaymentStatus: booking=%d request failed: %v", bookingID, err)
		return nil, fmt.Errorf("%w: %v", ErrServiceDegraded, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	default:
		c.logger.Warn("GetPaymentStatus: booking=%d unexpected status %d", bookingID, resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", ErrServiceDegraded, resp.StatusCode)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrServiceDegraded, err)
	}
	return &payment, nil
}
