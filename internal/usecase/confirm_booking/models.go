package confirm_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса на подтверждение бронирования
type Request struct {
	BookingID int64
}

// Response модель ответа с подтверждённым бронированием
type Response struct {
	ID            int64
	Status        string
	PaymentStatus string
	TotalAmount   decimal.Decimal
	Currency      string
	ConfirmedAt   time.Time
}
