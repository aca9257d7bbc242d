package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingExpired   BookingStatus = "expired"
)

// PaymentStatus статус оплаты; устанавливается извне (платёжный слой
// вне ядра), ядро его только хранит и использует при подтверждении
type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentPartial  PaymentStatus = "partial"
)

// Booking represents a customer's purchase intent over one or more
// session line items.
type Booking struct {
	ID            int64
	ContactName   string
	ContactEmail  string
	ContactPhone  *string
	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalAmount   decimal.Decimal
	Currency      string

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Items []*BookingItem
}

// CanBeCancelled returns true if the booking can be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == BookingPending || b.Status == BookingConfirmed
}

// CanBeConfirmed returns true if the booking can be confirmed
func (b *Booking) CanBeConfirmed() bool {
	return b.Status == BookingPending
}

// IsFinal returns true if the booking is in a terminal state
func (b *Booking) IsFinal() bool {
	return b.Status == BookingCancelled || b.Status == BookingExpired
}

// BookingItem строка бронирования: (вариант, сессия, pax type, количество).
// После создания неизменяема; снимается только отменой всего бронирования.
type BookingItem struct {
	ID        int64
	BookingID int64
	VariantID int64
	SessionID int64
	PaxType   PaxType
	Quantity  int

	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal

	Passengers []*BookingPassenger

	CreatedAt time.Time
}

// BookingPassenger пассажир строки бронирования
type BookingPassenger struct {
	ID       int64
	ItemID   int64
	FullName string
}
