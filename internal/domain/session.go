package domain

import (
	"time"

	"github.com/avlasov/TMS-InventoryService/pkg/types"
)

// SessionStatus represents the status of a tour session
type SessionStatus string

const (
	SessionOpen      SessionStatus = "open"
	SessionClosed    SessionStatus = "closed"
	SessionFull      SessionStatus = "full"
	SessionCancelled SessionStatus = "cancelled"
)

// TourSession represents one dated occurrence of a tour variant.
//
// HeldQuantity and CommittedQuantity are the per-session capacity
// counters — the only shared mutable state in the inventory core.
// The invariant HeldQuantity + CommittedQuantity <= EffectiveCapacity
// is enforced by the capacity service under a row lock, never here.
type TourSession struct {
	ID        int64
	VariantID int64
	Date      time.Time
	StartTime types.TimeString
	EndTime   types.TimeString

	// CapacityOverride, если задан, заменяет CapacityPerSlot варианта
	CapacityOverride *int

	HeldQuantity      int
	CommittedQuantity int
	Status            SessionStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveCapacity возвращает фактическую вместимость сессии:
// override сессии, либо capacity_per_slot варианта
func (s *TourSession) EffectiveCapacity(variantCapacity int) int {
	if s.CapacityOverride != nil {
		return *s.CapacityOverride
	}
	return variantCapacity
}

// AvailableQuantity возвращает свободную вместимость
func (s *TourSession) AvailableQuantity(variantCapacity int) int {
	return s.EffectiveCapacity(variantCapacity) - s.HeldQuantity - s.CommittedQuantity
}

// IsBookable сообщает, можно ли резервировать места в сессии
func (s *TourSession) IsBookable() bool {
	return s.Status == SessionOpen
}

// DepartureAt возвращает момент отправления (дата + время начала)
func (s *TourSession) DepartureAt() (time.Time, error) {
	return s.StartTime.ToTime(s.Date)
}
