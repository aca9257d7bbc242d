package get_booking

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request модель запроса бронирования по ID
type Request struct {
	BookingID int64
}

// ItemResponse позиция бронирования
type ItemResponse struct {
	ID          int64
	VariantID   int64
	SessionID   int64
	PaxType     string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	Passengers  []string
}

// Response модель ответа с бронированием
type Response struct {
	ID            int64
	Status        string
	PaymentStatus string
	ContactName   string
	ContactEmail  string
	ContactPhone  *string
	TotalAmount   decimal.Decimal
	Currency      string

	CancellationReason *string
	CancelledAt        *time.Time

	Items []ItemResponse

	CreatedAt time.Time
	UpdatedAt time.Time
}
