package domain

import "time"

// TokenState represents the state of a reservation token
type TokenState string

const (
	TokenHeld      TokenState = "held"
	TokenCommitted TokenState = "committed"
	TokenReleased  TokenState = "released"
)

// ReservationToken подтверждение атомарного резерва вместимости сессии.
// Выдается capacity-сервисом при успешном Reserve; жизненный цикл строго
// held -> committed либо held -> released, других переходов нет.
type ReservationToken struct {
	ID        string // uuid
	SessionID int64
	Quantity  int
	State     TokenState
	CreatedAt time.Time
}

// HoldStatus represents the status of an inventory hold
type HoldStatus string

const (
	HoldHeld      HoldStatus = "held"
	HoldCommitted HoldStatus = "committed"
	HoldExpired   HoldStatus = "expired"
	HoldReleased  HoldStatus = "released"
)

// InventoryHold временный резерв N мест сессии с дедлайном expires_at.
//
// BookingID заполняется после создания записи бронирования: в интервале
// между резервом и созданием Booking холд существует без бронирования.
// Подтверждение (held -> committed) и истечение (held -> expired)
// взаимоисключающие: переход защищён условным UPDATE по статусу,
// побеждает ровно один.
type InventoryHold struct {
	ID        string // uuid
	TokenID   string // uuid токена capacity-сервиса
	SessionID int64
	BookingID *int64
	Quantity  int
	Status    HoldStatus
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive сообщает, действует ли холд в момент now
func (h *InventoryHold) IsActive(now time.Time) bool {
	return h.Status == HoldHeld && h.ExpiresAt.After(now)
}

// IsDue сообщает, пора ли холду истечь
func (h *InventoryHold) IsDue(now time.Time) bool {
	return h.Status == HoldHeld && !h.ExpiresAt.After(now)
}
