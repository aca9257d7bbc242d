package cancel_booking

import (
	"github.com/shopspring/decimal"
)

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64
	Reason    *string // Причина отмены (опционально)
}

// ItemFee расчёт штрафа по одной позиции
type ItemFee struct {
	ItemID       int64
	SessionID    int64
	FeePct       decimal.Decimal
	ItemTotal    decimal.Decimal
	RefundAmount decimal.Decimal
}

// Response модель ответа с результатом отмены
type Response struct {
	ID            int64
	Status        string
	PaymentStatus string

	// RefundAmount итоговая сумма возврата по всем позициям
	RefundAmount decimal.Decimal
	Currency     string

	Items []ItemFee
}
