package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TourVariant represents a bookable configuration of a tour.
// A variant owns its price rules and its cancellation policy; sessions
// inherit capacity from the variant unless they carry an override.
type TourVariant struct {
	ID              int64
	TourID          int64
	Name            string
	CapacityPerSlot int
	CutoffHours     int
	Currency        string
	TaxRatePct      decimal.Decimal
	TaxIncluded     bool

	// Soft delete: variants referenced by bookings are never removed
	DeletedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDeleted returns true if the variant has been soft-deleted
func (v *TourVariant) IsDeleted() bool {
	return v.DeletedAt != nil
}

// PaxType классифицирует пассажира для целей ценообразования
type PaxType string

const (
	PaxAdult  PaxType = "adult"
	PaxChild  PaxType = "child"
	PaxInfant PaxType = "infant"
	PaxSenior PaxType = "senior"
)

// IsValid проверяет, что pax type известен системе
func (p PaxType) IsValid() bool {
	switch p {
	case PaxAdult, PaxChild, PaxInfant, PaxSenior:
		return true
	}
	return false
}

// VariantPaxPrice базовая цена за единицу для pax type варианта.
// Применяется, когда ни одно ценовое правило не подошло.
type VariantPaxPrice struct {
	ID        int64
	VariantID int64
	PaxType   PaxType
	Price     decimal.Decimal
}
